package backup

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/habitual/internal/domain"
	"github.com/google/uuid"
)

// FromHabits builds a backup document from stored habits.
func FromHabits(habits []*domain.Habit, now time.Time) *Schema {
	s := &Schema{
		Version:    FormatVersion,
		ExportedAt: formatTime(now),
		Habits:     make([]HabitRecord, 0, len(habits)),
	}
	for _, h := range habits {
		rec := HabitRecord{
			ID:        h.ID,
			Name:      h.Name,
			Time:      h.Time,
			StartDate: string(h.StartDate),
			CreatedAt: formatTime(h.CreatedAt),
		}
		if len(h.TrackedDays) > 0 {
			rec.Days = make(map[string]string, len(h.TrackedDays))
			for k, st := range h.TrackedDays {
				rec.Days[string(k)] = string(st)
			}
		}
		s.Habits = append(s.Habits, rec)
	}
	return s
}

// Convert turns a validated backup into habits ready for persistence.
// Records without an id get a fresh one; records without created_at are
// stamped with now, offset by position so creation order is preserved.
func Convert(s *Schema, now time.Time) ([]*domain.Habit, error) {
	habits := make([]*domain.Habit, 0, len(s.Habits))
	for i, rec := range s.Habits {
		start, err := domain.ParseKey(rec.StartDate)
		if err != nil {
			return nil, fmt.Errorf("habit %d: %w", i, err)
		}

		created := now.Add(time.Duration(i) * time.Microsecond)
		if rec.CreatedAt != "" {
			if created, err = time.Parse(time.RFC3339, rec.CreatedAt); err != nil {
				return nil, fmt.Errorf("habit %d: parsing created_at: %w", i, err)
			}
		}

		days := domain.TrackedDays{}
		for k, v := range rec.Days {
			st, err := domain.ParseDayStatus(v)
			if err != nil {
				return nil, fmt.Errorf("habit %d: %w", i, err)
			}
			if st != domain.StatusPending {
				days[domain.DateKey(k)] = st
			}
		}

		id := rec.ID
		if id == "" {
			id = uuid.New().String()
		}
		name := rec.Name
		if name == "" {
			name = domain.DefaultHabitName
		}

		habits = append(habits, &domain.Habit{
			ID:          id,
			Name:        name,
			Time:        rec.Time,
			StartDate:   start,
			TrackedDays: days,
			CreatedAt:   created.UTC(),
			UpdatedAt:   now.UTC(),
		})
	}
	sort.SliceStable(habits, func(i, j int) bool {
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})
	return habits, nil
}
