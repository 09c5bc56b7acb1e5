package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/habitual/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	StyleToday  = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true).Underline(true)
	StyleCursor = lipgloss.NewStyle().Reverse(true).Bold(true)
)

// Cell glyphs. Today gets its own glyph while still pending so it stands
// out in plain-text output too.
const (
	GlyphDone         = "●"
	GlyphMissed       = "✕"
	GlyphPending      = "·"
	GlyphTodayPending = "○"
)

// StatusStyle returns the style used for a day in the given status.
func StatusStyle(s domain.DayStatus) lipgloss.Style {
	switch s {
	case domain.StatusDone:
		return StyleGreen
	case domain.StatusMissed:
		return StyleRed
	default:
		return StyleDim
	}
}

// StatusGlyph returns the glyph for a day, unstyled.
func StatusGlyph(s domain.DayStatus, isToday bool) string {
	switch s {
	case domain.StatusDone:
		return GlyphDone
	case domain.StatusMissed:
		return GlyphMissed
	default:
		if isToday {
			return GlyphTodayPending
		}
		return GlyphPending
	}
}

// RenderCell renders one day cell.
func RenderCell(c domain.DayCell) string {
	glyph := StatusGlyph(c.Status, c.IsToday)
	if c.IsToday {
		return StyleToday.Render(glyph)
	}
	return StatusStyle(c.Status).Render(glyph)
}

// StatusPill returns a colored label such as "● Done".
func StatusPill(s domain.DayStatus) string {
	return StatusStyle(s).Render(StatusGlyph(s, false) + " " + s.Label())
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
