package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/habitual/internal/backup"
	"github.com/alexanderramin/habitual/internal/domain"
	"github.com/alexanderramin/habitual/internal/repository"
	"github.com/alexanderramin/habitual/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedHabits(t *testing.T, repo repository.HabitRepo, habits ...*domain.Habit) {
	t.Helper()
	for _, h := range habits {
		require.NoError(t, repo.Create(context.Background(), h))
	}
}

func TestBackupService_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	srcDB := testutil.NewTestDB(t)
	srcRepo := repository.NewSQLiteHabitRepo(srcDB)
	seedHabits(t, srcRepo,
		testutil.NewTestHabit("Run", testutil.WithStartDate("2024-01-01"),
			testutil.WithDay("2024-01-02", domain.StatusDone),
			testutil.WithDay("2024-01-03", domain.StatusMissed)),
		testutil.NewTestHabit("Read", testutil.WithTimeLabel("9:00 PM")),
	)

	schema, err := NewBackupService(srcRepo, testutil.NewTestUoW(srcDB)).Export(ctx)
	require.NoError(t, err)
	require.Len(t, schema.Habits, 2)

	dstDB := testutil.NewTestDB(t)
	dstRepo := repository.NewSQLiteHabitRepo(dstDB)
	result, err := NewBackupService(dstRepo, testutil.NewTestUoW(dstDB)).Import(ctx, schema, ImportReplace)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)

	want, err := srcRepo.List(ctx)
	require.NoError(t, err)
	got, err := dstRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Time, got[i].Time)
		assert.Equal(t, want[i].StartDate, got[i].StartDate)
		assert.Equal(t, want[i].TrackedDays, got[i].TrackedDays)
	}
}

func TestBackupService_ImportReplaceRemovesExisting(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteHabitRepo(database)
	seedHabits(t, repo, testutil.NewTestHabit("Old"), testutil.NewTestHabit("Older"))

	svc := NewBackupService(repo, testutil.NewTestUoW(database))
	result, err := svc.Import(ctx, &backup.Schema{Habits: []backup.HabitRecord{
		{Name: "Fresh", StartDate: "2024-04-01"},
	}}, ImportReplace)
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Created: 1, Removed: 2}, result)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Fresh", list[0].Name)
}

func TestBackupService_ImportMergeOverlaysDays(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteHabitRepo(database)
	existing := testutil.NewTestHabit("Walk",
		testutil.WithDay("2024-01-01", domain.StatusDone),
		testutil.WithDay("2024-01-02", domain.StatusDone))
	other := testutil.NewTestHabit("Untouched")
	seedHabits(t, repo, existing, other)

	svc := NewBackupService(repo, testutil.NewTestUoW(database))
	result, err := svc.Import(ctx, &backup.Schema{Habits: []backup.HabitRecord{
		{
			ID:        existing.ID,
			Name:      "Long Walk",
			StartDate: string(existing.StartDate),
			Days:      map[string]string{"2024-01-02": "missed", "2024-01-03": "done"},
		},
		{Name: "New One", StartDate: "2024-01-01"},
	}}, ImportMerge)
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Created: 1, Updated: 1}, result)

	merged, err := repo.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Long Walk", merged.Name)
	assert.Equal(t, domain.TrackedDays{
		"2024-01-01": domain.StatusDone,
		"2024-01-02": domain.StatusMissed,
		"2024-01-03": domain.StatusDone,
	}, merged.TrackedDays)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestBackupService_ImportValidationFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteHabitRepo(database)

	svc := NewBackupService(repo, testutil.NewTestUoW(database))
	_, err := svc.Import(ctx, &backup.Schema{Habits: []backup.HabitRecord{
		{Name: "Good", StartDate: "2024-01-01"},
		{Name: "Bad", StartDate: "someday"},
	}}, ImportMerge)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backup validation failed (1 errors)")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBackupService_ImportRollbackOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteHabitRepo(database)
	seedHabits(t, repo, testutil.NewTestHabit("Keep Me"))

	// Exec #1 deletes the existing habit, #2 inserts the first record.
	failUoW := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: fmt.Errorf("injected insert failure")}
	svc := NewBackupService(repo, failUoW)

	_, err := svc.Import(ctx, &backup.Schema{Habits: []backup.HabitRecord{
		{Name: "Replacement", StartDate: "2024-01-01"},
	}}, ImportReplace)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected insert failure")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Keep Me", list[0].Name)
}

func TestBackupService_ImportFile(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteHabitRepo(database)
	svc := NewBackupService(repo, testutil.NewTestUoW(database))

	path := filepath.Join(t.TempDir(), "habits.yaml")
	doc := "version: 1\nhabits:\n  - name: Floss\n    start_date: \"2024-05-01\"\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	result, err := svc.ImportFile(ctx, path, ImportMerge)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	_, err = svc.ImportFile(ctx, filepath.Join(t.TempDir(), "nope.yaml"), ImportMerge)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading backup file")

	_, err = svc.ImportFile(ctx, path, ImportMode("append"))
	assert.Error(t, err)
}
