package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/habitual/internal/domain"
	"github.com/alexanderramin/habitual/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// maxLabelLen caps habit names and time labels typed into forms.
const maxLabelLen = 64

// addHabitForm collects the name and time label for a new habit.
func addHabitForm(name, timeLabel *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit").
				Placeholder(domain.DefaultHabitName).
				Value(name).
				Validate(validateLabel),
			huh.NewInput().
				Title("Time (optional)").
				Description("Free text, e.g. 7:00 AM or after lunch").
				Value(timeLabel).
				Validate(validateLabel),
		),
	).WithTheme(formTheme(false)).WithShowHelp(false)
}

// confirmForm asks before something is destroyed. The affirmative button
// is red.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(formTheme(true)).WithShowHelp(false)
}

// formTheme styles huh forms with the board palette.
func formTheme(destructive bool) *huh.Theme {
	t := huh.ThemeBase()
	accent := formatter.ColorHeader
	if destructive {
		accent = formatter.ColorRed
	}
	fg := lipgloss.NewStyle().Foreground(formatter.ColorFg)
	dim := lipgloss.NewStyle().Foreground(formatter.ColorDim)

	f := &t.Focused
	f.Title = lipgloss.NewStyle().Foreground(accent).Bold(true)
	f.Description = dim
	f.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	f.ErrorIndicator = f.ErrorMessage
	f.FocusedButton = fg.Background(accent).Padding(0, 1)
	f.BlurredButton = dim.Padding(0, 1)
	f.TextInput.Prompt = lipgloss.NewStyle().Foreground(accent)
	f.TextInput.Cursor = f.TextInput.Prompt
	f.TextInput.Text = fg
	f.TextInput.Placeholder = dim

	b := &t.Blurred
	b.Title = dim
	b.TextInput.Prompt = dim
	b.TextInput.Text = dim
	return t
}

func validateLabel(s string) error {
	if utf8.RuneCountInString(strings.TrimSpace(s)) > maxLabelLen {
		return fmt.Errorf("keep it under %d characters", maxLabelLen)
	}
	return nil
}
