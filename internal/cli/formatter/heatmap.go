package formatter

import (
	"strings"

	"github.com/alexanderramin/habitual/internal/domain"
)

// Rows of the heat map are weekdays, Sunday first. Only alternate rows get
// a label so the gutter stays narrow.
var heatmapRowLabels = [7]string{"", "Mon", "", "Wed", "", "Fri", ""}

const heatmapGutter = 4

// FormatHistory renders the backward window as a heat map: one column per
// week, one row per weekday, month labels above the week where each month
// begins.
func FormatHistory(h domain.History) string {
	weeks := h.Weeks()

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", heatmapGutter))
	b.WriteString(Dim(monthLabelRow(h.Labels, len(weeks))))
	b.WriteString("\n")

	for row := 0; row < 7; row++ {
		b.WriteString(Dim(padRight(heatmapRowLabels[row], heatmapGutter)))
		cells := make([]string, len(weeks))
		for w, week := range weeks {
			if row < len(week) {
				cells[w] = RenderCell(week[row])
			} else {
				cells[w] = " "
			}
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, " "), " "))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// monthLabelRow lays labels out at two columns per week, matching the
// cell spacing of the rows below.
func monthLabelRow(labels []domain.HistoryLabel, weeks int) string {
	row := []rune(strings.Repeat(" ", weeks*2))
	for _, l := range labels {
		at := l.WeekIndex * 2
		for len(row) < at+len(l.Month) {
			row = append(row, ' ')
		}
		copy(row[at:], []rune(l.Month))
	}
	return strings.TrimRight(string(row), " ")
}

// HistorySummary counts done and missed days in the window.
func HistorySummary(h domain.History) (done, missed int) {
	for _, c := range h.Cells {
		switch c.Status {
		case domain.StatusDone:
			done++
		case domain.StatusMissed:
			missed++
		}
	}
	return done, missed
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
