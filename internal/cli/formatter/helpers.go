package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/habitual/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// relSpans picks the unit for RelativeDay by distance in days: plain days
// under two weeks, weeks under 60 days, 30-day months beyond.
var relSpans = []struct {
	below, per int
	unit       string
}{
	{14, 1, "d"},
	{60, 7, "w"},
	{0, 30, "mo"},
}

// RelativeDay describes k relative to today: "Today", "Yesterday",
// "5d ago", "3w ago", "In 2d" and so on.
func RelativeDay(k, today domain.DateKey) string {
	days := today.DaysUntil(k)
	switch days {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	case -1:
		return "Yesterday"
	}

	dist := max(days, -days)
	span := relSpans[len(relSpans)-1]
	for _, s := range relSpans[:len(relSpans)-1] {
		if dist < s.below {
			span = s
			break
		}
	}
	n := strconv.Itoa(dist/span.per) + span.unit
	if days > 0 {
		return "In " + n
	}
	return n + " ago"
}

// HumanTimestamp renders an edit time: minutes or hours ago within the
// last day, otherwise the local date.
func HumanTimestamp(t, now time.Time) string {
	if d := now.Sub(t); d >= 0 && d < 24*time.Hour {
		switch {
		case d < time.Minute:
			return "Just now"
		case d < time.Hour:
			return fmt.Sprintf("%dm ago", d/time.Minute)
		}
		return fmt.Sprintf("%dh ago", d/time.Hour)
	}
	return t.Local().Format("Jan 2, 2006")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// StreakBadge renders a streak count such as "🔥 12".
func StreakBadge(n int) string {
	switch {
	case n == 0:
		return StyleDim.Render("0")
	case n >= 30:
		return StyleHeader.Render(fmt.Sprintf("🔥 %d", n))
	case n >= 7:
		return StyleYellow.Render(fmt.Sprintf("🔥 %d", n))
	default:
		return StyleGreen.Render(fmt.Sprintf("%d", n))
	}
}
