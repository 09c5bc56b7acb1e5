package repository

import (
	"context"

	"github.com/alexanderramin/habitual/internal/domain"
)

// HabitRepo persists habits and their tracked days. Pending days are never
// written: setting a day to pending deletes its row.
type HabitRepo interface {
	Create(ctx context.Context, h *domain.Habit) error
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	List(ctx context.Context) ([]*domain.Habit, error)
	Update(ctx context.Context, h *domain.Habit) error
	ReplaceDays(ctx context.Context, habitID string, days domain.TrackedDays) error
	SetDay(ctx context.Context, habitID string, day domain.DateKey, status domain.DayStatus) error
	Delete(ctx context.Context, id string) (bool, error)
}
