package service

import (
	"context"

	"github.com/alexanderramin/habitual/internal/backup"
	"github.com/alexanderramin/habitual/internal/domain"
)

// HabitService is the persistence contract the tracker and CLI work
// against. Every method returns the stored state after the change.
type HabitService interface {
	List(ctx context.Context) ([]*domain.Habit, error)
	Get(ctx context.Context, id string) (*domain.Habit, error)
	Create(ctx context.Context, name, timeLabel string) (*domain.Habit, error)
	Update(ctx context.Context, id string, patch domain.HabitPatch) (*domain.Habit, error)
	Delete(ctx context.Context, id string) (bool, error)
	CycleDay(ctx context.Context, id string, day domain.DateKey) (*domain.Habit, domain.DayStatus, error)
	SetDay(ctx context.Context, id string, day domain.DateKey, status domain.DayStatus) (*domain.Habit, error)
}

// ImportMode selects how an import treats habits already in the store.
type ImportMode string

const (
	// ImportMerge keeps existing habits. A record whose id matches an
	// existing habit overwrites its name and time and overlays its days.
	ImportMerge ImportMode = "merge"
	// ImportReplace deletes every existing habit first.
	ImportReplace ImportMode = "replace"
)

// ImportResult holds the outcome of a backup import.
type ImportResult struct {
	Created int
	Updated int
	Removed int
}

type BackupService interface {
	Export(ctx context.Context) (*backup.Schema, error)
	Import(ctx context.Context, schema *backup.Schema, mode ImportMode) (*ImportResult, error)
	ImportFile(ctx context.Context, path string, mode ImportMode) (*ImportResult, error)
}
