package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/habitual/internal/domain"
)

// resolveHabit finds a habit from user input, which can be:
//   - A full habit ID
//   - A habit name (case-insensitive)
//   - A unique ID prefix
func resolveHabit(ctx context.Context, app *App, input string) (*domain.Habit, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("habit ID or name is required")
	}

	habits, err := app.Habits.List(ctx)
	if err != nil {
		return nil, err
	}

	// 1. Exact ID match
	for _, h := range habits {
		if h.ID == input {
			return h, nil
		}
	}

	// 2. Name match
	var named []*domain.Habit
	for _, h := range habits {
		if strings.EqualFold(h.DisplayName(), input) {
			named = append(named, h)
		}
	}
	switch len(named) {
	case 0:
	case 1:
		return named[0], nil
	default:
		return nil, fmt.Errorf("habit name %q is ambiguous (%d matches), use the ID", input, len(named))
	}

	// 3. ID prefix match
	var matches []*domain.Habit
	for _, h := range habits {
		if strings.HasPrefix(h.ID, strings.ToLower(input)) {
			matches = append(matches, h)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %q", domain.ErrHabitNotFound, input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("habit ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
