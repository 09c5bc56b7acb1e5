package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/habitual/internal/backup"
	"github.com/alexanderramin/habitual/internal/db"
	"github.com/alexanderramin/habitual/internal/domain"
	"github.com/alexanderramin/habitual/internal/repository"
)

type backupService struct {
	habits   repository.HabitRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewBackupService(habits repository.HabitRepo, uow db.UnitOfWork, observers ...UseCaseObserver) BackupService {
	return &backupService{
		habits:   habits,
		uow:      uow,
		observer: combineObservers(observers),
	}
}

func (s *backupService) Export(ctx context.Context) (*backup.Schema, error) {
	habits, err := s.habits.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	return backup.FromHabits(habits, time.Now()), nil
}

func (s *backupService) ImportFile(ctx context.Context, path string, mode ImportMode) (*ImportResult, error) {
	schema, err := backup.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading backup file: %w", err)
	}
	return s.Import(ctx, schema, mode)
}

// Import writes a backup in one transaction. Nothing is stored when any
// record fails validation or any write fails.
func (s *backupService) Import(ctx context.Context, schema *backup.Schema, mode ImportMode) (result *ImportResult, err error) {
	ev := newEvent("import-backup", "")
	ev.Fields["mode"] = string(mode)
	ev.Fields["records"] = len(schema.Habits)
	defer observe(ctx, s.observer, ev, &err)

	if mode != ImportMerge && mode != ImportReplace {
		return nil, fmt.Errorf("unknown import mode %q", string(mode))
	}
	if errs := backup.Validate(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	habits, err := backup.Convert(schema, time.Now())
	if err != nil {
		return nil, fmt.Errorf("converting backup: %w", err)
	}

	result = &ImportResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteHabitRepo(tx)
		existing, err := repo.List(ctx)
		if err != nil {
			return err
		}
		byID := make(map[string]*domain.Habit, len(existing))
		for _, h := range existing {
			byID[h.ID] = h
		}

		if mode == ImportReplace {
			for _, h := range existing {
				if _, err := repo.Delete(ctx, h.ID); err != nil {
					return err
				}
				result.Removed++
			}
			byID = map[string]*domain.Habit{}
		}

		for _, h := range habits {
			current, ok := byID[h.ID]
			if !ok {
				if err := repo.Create(ctx, h); err != nil {
					return fmt.Errorf("creating habit %q: %w", h.Name, err)
				}
				result.Created++
				continue
			}
			if err := mergeInto(ctx, repo, current, h); err != nil {
				return fmt.Errorf("merging habit %q: %w", h.Name, err)
			}
			result.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("importing backup: %w", err)
	}
	ev.Fields["created"] = result.Created
	ev.Fields["updated"] = result.Updated
	ev.Fields["removed"] = result.Removed
	return result, nil
}

// mergeInto takes name and time from the incoming habit and overlays its
// tracked days on the current ones.
func mergeInto(ctx context.Context, repo repository.HabitRepo, current, incoming *domain.Habit) error {
	days := current.TrackedDays.Clone()
	for k, st := range incoming.TrackedDays {
		days[k] = st
	}
	patch := domain.HabitPatch{Name: &incoming.Name, Time: &incoming.Time, TrackedDays: days}
	merged := patch.ApplyTo(current, time.Now().UTC())
	if err := repo.Update(ctx, merged); err != nil {
		return err
	}
	return repo.ReplaceDays(ctx, current.ID, merged.TrackedDays)
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("backup validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
