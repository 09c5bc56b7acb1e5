package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/habitual/internal/domain"
)

// HabitRow is one line of the habit list.
type HabitRow struct {
	Habit  *domain.Habit
	Streak int
}

// FormatHabitList renders habits as a table with streak and today's status.
func FormatHabitList(rows []HabitRow, today domain.DateKey) string {
	if len(rows) == 0 {
		return Dim("No habits yet. Add one with: habitual add \"Morning Run\"")
	}

	headers := []string{"ID", "NAME", "TIME", "STREAK", "TODAY", "STARTED"}
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		timeLabel := r.Habit.Time
		if timeLabel == "" {
			timeLabel = Dim("--")
		}
		data = append(data, []string{
			TruncID(r.Habit.ID),
			Bold(r.Habit.DisplayName()),
			timeLabel,
			StreakBadge(r.Streak),
			StatusPill(r.Habit.TrackedDays.Status(today)),
			Dim(RelativeDay(r.Habit.StartDate, today)),
		})
	}
	return strings.TrimRight(RenderTable(headers, data), "\n")
}

// FormatHabitDetail renders a habit card with its forward grid.
func FormatHabitDetail(h *domain.Habit, now time.Time, streak int) string {
	today := domain.KeyOf(now)
	grid := domain.ForwardWindow(h.StartDate, today, h.TrackedDays)

	var done, missed int
	for _, k := range grid.Keys() {
		switch h.TrackedDays.Status(k) {
		case domain.StatusDone:
			done++
		case domain.StatusMissed:
			missed++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Bold(h.DisplayName()), TruncID(h.ID))
	if h.Time != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("Time:   "), h.Time)
	}
	fmt.Fprintf(&b, "%s %s %s\n", Dim("Started:"), string(h.StartDate), Dim("("+RelativeDay(h.StartDate, today)+")"))
	if !h.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "%s %s\n", Dim("Edited: "), HumanTimestamp(h.UpdatedAt, now))
	}
	fmt.Fprintf(&b, "%s %s\n", Dim("Streak: "), StreakBadge(streak))
	fmt.Fprintf(&b, "%s %s %s\n", Dim("Rate:   "), RenderProgress(CompletionRate(done, missed), 20),
		Dim(fmt.Sprintf("%d done, %d missed", done, missed)))
	b.WriteString("\n")
	b.WriteString(FormatForwardGrid(grid, ""))
	b.WriteString("\n\n")
	b.WriteString(GridLegend())

	return RenderBox("", b.String())
}

// FormatHabitHistory renders the one-year heat map for a habit.
func FormatHabitHistory(h *domain.Habit, today domain.DateKey) string {
	hist := domain.BackwardWindow(today, h.TrackedDays)
	done, missed := HistorySummary(hist)

	var b strings.Builder
	b.WriteString(Header(h.DisplayName() + " history"))
	b.WriteString("\n\n")
	b.WriteString(FormatHistory(hist))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s  %s\n",
		Dim(fmt.Sprintf("%s to %s", hist.Start, hist.Today)),
		Dim(fmt.Sprintf("%d done, %d missed", done, missed)))
	b.WriteString(GridLegend())
	return b.String()
}

// FormatStreak renders the one-line streak summary.
func FormatStreak(h *domain.Habit, streak int) string {
	unit := "days"
	if streak == 1 {
		unit = "day"
	}
	return fmt.Sprintf("%s: %s %s", Bold(h.DisplayName()), StreakBadge(streak), Dim(unit))
}
