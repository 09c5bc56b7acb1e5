package testutil

import (
	"time"

	"github.com/alexanderramin/habitual/internal/domain"
	"github.com/google/uuid"
)

// HabitOption customises a habit built by NewTestHabit.
type HabitOption func(*domain.Habit)

func WithStartDate(k domain.DateKey) HabitOption {
	return func(h *domain.Habit) {
		h.StartDate = k
	}
}

func WithTimeLabel(label string) HabitOption {
	return func(h *domain.Habit) {
		h.Time = label
	}
}

func WithDay(k domain.DateKey, s domain.DayStatus) HabitOption {
	return func(h *domain.Habit) {
		h.TrackedDays = h.TrackedDays.With(k, s)
	}
}

// WithDoneRange marks every day from first through last done.
func WithDoneRange(first, last domain.DateKey) HabitOption {
	return func(h *domain.Habit) {
		days := h.TrackedDays.Clone()
		for k := first; !k.After(last); k = k.AddDays(1) {
			days[k] = domain.StatusDone
		}
		h.TrackedDays = days
	}
}

func WithCreatedAt(t time.Time) HabitOption {
	return func(h *domain.Habit) {
		h.CreatedAt = t
		h.UpdatedAt = t
	}
}

// NewTestHabit returns a habit that started 30 days ago with no tracked days.
func NewTestHabit(name string, opts ...HabitOption) *domain.Habit {
	now := time.Now().UTC()
	h := &domain.Habit{
		ID:          uuid.New().String(),
		Name:        name,
		StartDate:   domain.Today().AddDays(-30),
		TrackedDays: domain.TrackedDays{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
