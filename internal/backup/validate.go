package backup

import (
	"fmt"
	"time"

	"github.com/alexanderramin/habitual/internal/domain"
)

// Validate checks a backup before conversion and returns every problem found.
func Validate(s *Schema) []error {
	var errs []error
	ids := make(map[string]bool)

	for i, h := range s.Habits {
		where := fmt.Sprintf("habits[%d]", i)
		if h.ID != "" {
			if ids[h.ID] {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", where, h.ID))
			}
			ids[h.ID] = true
		}
		if h.StartDate == "" {
			errs = append(errs, fmt.Errorf("%s.start_date is required", where))
		} else if _, err := domain.ParseKey(h.StartDate); err != nil {
			errs = append(errs, fmt.Errorf("%s.start_date: %w", where, err))
		}
		if h.CreatedAt != "" {
			if _, err := time.Parse(time.RFC3339, h.CreatedAt); err != nil {
				errs = append(errs, fmt.Errorf("%s.created_at: invalid timestamp %q", where, h.CreatedAt))
			}
		}
		errs = append(errs, validateDays(where, h.Days)...)
	}
	return errs
}

func validateDays(where string, days map[string]string) []error {
	var errs []error
	for k, v := range days {
		if _, err := domain.ParseKey(k); err != nil {
			errs = append(errs, fmt.Errorf("%s.days: %w", where, err))
			continue
		}
		s, err := domain.ParseDayStatus(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.days[%s]: %w", where, k, err))
			continue
		}
		if s == domain.StatusPending {
			errs = append(errs, fmt.Errorf("%s.days[%s]: pending is implicit and must not be listed", where, k))
		}
	}
	return errs
}
