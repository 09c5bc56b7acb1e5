package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/habitual/internal/db"
	"github.com/alexanderramin/habitual/internal/domain"
	"github.com/alexanderramin/habitual/internal/repository"
	"github.com/google/uuid"
)

type habitService struct {
	habits   repository.HabitRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
	clock    func() time.Time
}

func NewHabitService(habits repository.HabitRepo, uow db.UnitOfWork, observers ...UseCaseObserver) HabitService {
	return &habitService{
		habits:   habits,
		uow:      uow,
		observer: combineObservers(observers),
		clock:    time.Now,
	}
}

func (s *habitService) List(ctx context.Context) ([]*domain.Habit, error) {
	habits, err := s.habits.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	return habits, nil
}

func (s *habitService) Get(ctx context.Context, id string) (*domain.Habit, error) {
	return s.habits.GetByID(ctx, id)
}

// Create stores a habit that starts today with no tracked days. A blank
// name falls back to the default name.
func (s *habitService) Create(ctx context.Context, name, timeLabel string) (h *domain.Habit, err error) {
	ev := newEvent("create-habit", "")
	defer observe(ctx, s.observer, ev, &err)

	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.DefaultHabitName
	}
	now := s.clock()
	h = &domain.Habit{
		ID:          uuid.New().String(),
		Name:        name,
		Time:        strings.TrimSpace(timeLabel),
		StartDate:   domain.KeyOf(now),
		TrackedDays: domain.TrackedDays{},
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
	ev.HabitID = h.ID

	if err = s.habits.Create(ctx, h); err != nil {
		return nil, fmt.Errorf("creating habit: %w", err)
	}
	return h, nil
}

// Update applies a partial update in one transaction and returns the
// resulting habit.
func (s *habitService) Update(ctx context.Context, id string, patch domain.HabitPatch) (updated *domain.Habit, err error) {
	ev := newEvent("update-habit", id)
	ev.Fields["name"] = patch.Name != nil
	ev.Fields["time"] = patch.Time != nil
	ev.Fields["tracked_days"] = patch.TrackedDays != nil
	defer observe(ctx, s.observer, ev, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteHabitRepo(tx)
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			updated = current
			return nil
		}

		updated = patch.ApplyTo(current, s.clock().UTC())
		// A one-day change is a day mark, the shape a board cycle takes.
		if patch.TrackedDays != nil {
			if changed := current.TrackedDays.ChangedDays(updated.TrackedDays); len(changed) == 1 {
				ev.Day = changed[0]
				ev.Fields["status"] = string(updated.TrackedDays.Status(changed[0]))
			}
		}
		if patch.Name != nil || patch.Time != nil {
			if err := repo.Update(ctx, updated); err != nil {
				return err
			}
		}
		if patch.TrackedDays != nil {
			if err := repo.ReplaceDays(ctx, id, updated.TrackedDays); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("updating habit: %w", err)
	}
	return updated, nil
}

func (s *habitService) Delete(ctx context.Context, id string) (deleted bool, err error) {
	ev := newEvent("delete-habit", id)
	defer observe(ctx, s.observer, ev, &err)

	deleted, err = s.habits.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	ev.Fields["deleted"] = deleted
	return deleted, nil
}

// CycleDay advances one day pending -> done -> missed -> pending. The read
// and the write share a transaction, so concurrent cycles never lose a step.
func (s *habitService) CycleDay(ctx context.Context, id string, day domain.DateKey) (h *domain.Habit, status domain.DayStatus, err error) {
	ev := newEvent("cycle-day", id)
	ev.Day = day
	defer observe(ctx, s.observer, ev, &err)

	if !day.Valid() {
		return nil, "", fmt.Errorf("invalid date key %q", string(day))
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteHabitRepo(tx)
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		var next domain.TrackedDays
		next, status = current.TrackedDays.Cycle(day)
		if err := repo.SetDay(ctx, id, day, status); err != nil {
			return err
		}
		h = current
		h.TrackedDays = next
		h.UpdatedAt = s.clock().UTC()
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("cycling day: %w", err)
	}
	ev.Fields["status"] = string(status)
	return h, status, nil
}

// SetDay stores an explicit status for one day.
func (s *habitService) SetDay(ctx context.Context, id string, day domain.DateKey, status domain.DayStatus) (h *domain.Habit, err error) {
	ev := newEvent("set-day", id)
	ev.Day = day
	ev.Fields["status"] = string(status)
	defer observe(ctx, s.observer, ev, &err)

	if !day.Valid() {
		return nil, fmt.Errorf("invalid date key %q", string(day))
	}
	if _, err = domain.ParseDayStatus(string(status)); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteHabitRepo(tx)
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.SetDay(ctx, id, day, status); err != nil {
			return err
		}
		h = current
		h.TrackedDays = current.TrackedDays.With(day, status)
		h.UpdatedAt = s.clock().UTC()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("setting day: %w", err)
	}
	return h, nil
}
