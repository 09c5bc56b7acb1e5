package formatter

import (
	"strings"

	"github.com/alexanderramin/habitual/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const weekdayInitials = "S M T W T F S"

// FormatForwardGrid renders the forward window as month calendars placed
// side by side. Each month starts on its own row offset by its leading
// blanks so days fall under the right weekday. The cursor day, if any, is
// shown in reverse video.
func FormatForwardGrid(grid domain.ForwardGrid, cursor domain.DateKey) string {
	blocks := make([]string, 0, len(grid.Months)*2)
	for i, m := range grid.Months {
		if i > 0 {
			blocks = append(blocks, "   ")
		}
		blocks = append(blocks, FormatMonth(m, cursor))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

// FormatMonth renders one month group: label, weekday header, then weeks.
func FormatMonth(m domain.MonthGroup, cursor domain.DateKey) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render(m.Label))
	b.WriteString("\n")
	b.WriteString(Dim(weekdayInitials))

	col := 0
	var line []string
	flush := func() {
		b.WriteString("\n")
		b.WriteString(strings.Join(line, " "))
		line = line[:0]
		col = 0
	}
	for i := 0; i < m.LeadingBlanks; i++ {
		line = append(line, " ")
		col++
	}
	for _, d := range m.Days {
		cell := RenderCell(d)
		if d.Key == cursor {
			cell = StyleCursor.Render(StatusGlyph(d.Status, d.IsToday))
		}
		line = append(line, cell)
		col++
		if col == 7 {
			flush()
		}
	}
	if col > 0 {
		flush()
	}
	return b.String()
}

// GridLegend explains the cell glyphs.
func GridLegend() string {
	return strings.Join([]string{
		StyleGreen.Render(GlyphDone) + Dim(" done"),
		StyleRed.Render(GlyphMissed) + Dim(" missed"),
		StyleDim.Render(GlyphPending) + Dim(" pending"),
		StyleToday.Render(GlyphTodayPending) + Dim(" today"),
	}, "   ")
}
