package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/habitual/internal/domain"
	"github.com/alexanderramin/habitual/internal/repository"
	"github.com/alexanderramin/habitual/internal/service"
	"github.com/alexanderramin/habitual/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// testApp wires a full App backed by an in-memory DB and seeds it with the
// given habits.
func testApp(t *testing.T, habits ...*domain.Habit) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteHabitRepo(database)
	uow := testutil.NewTestUoW(database)

	for _, h := range habits {
		require.NoError(t, repo.Create(context.Background(), h))
	}

	return &App{
		Habits:    service.NewHabitService(repo, uow),
		Backup:    service.NewBackupService(repo, uow),
		EditDelay: time.Hour,
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

func getHabit(t *testing.T, app *App, id string) *domain.Habit {
	t.Helper()
	h, err := app.Habits.Get(context.Background(), id)
	require.NoError(t, err)
	return h
}

// --- Root ---

func TestRootCmd_NonInteractiveShowsHelp(t *testing.T) {
	app := testApp(t)
	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "habitual")
	assert.Contains(t, out, "mark")
	assert.Contains(t, out, "history")
}

// --- add / list ---

func TestListCmd_Empty(t *testing.T) {
	app := testApp(t)
	out, err := executeCmd(t, app, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No habits yet")
}

func TestAddCmd_WithNameAndTime(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "add", "Morning Run", "--time", "6:30 AM")
	require.NoError(t, err)
	assert.Contains(t, out, "Created Morning Run")

	habits, err := app.Habits.List(context.Background())
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "Morning Run", habits[0].Name)
	assert.Equal(t, "6:30 AM", habits[0].Time)
	assert.Equal(t, domain.Today(), habits[0].StartDate)
	assert.Empty(t, habits[0].TrackedDays)

	out, err = executeCmd(t, app, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Morning Run")
	assert.Contains(t, out, "6:30 AM")
	assert.Contains(t, out, "Today")
}

func TestAddCmd_NoNameUsesDefault(t *testing.T) {
	app := testApp(t)
	out, err := executeCmd(t, app, "add")
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+domain.DefaultHabitName)
}

func TestListCmd_ShowsStreak(t *testing.T) {
	today := domain.Today()
	h := testutil.NewTestHabit("Read", testutil.WithDoneRange(today.AddDays(-4), today.AddDays(-1)))
	app := testApp(t, h)

	out, err := executeCmd(t, app, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Read")
	assert.Regexp(t, `Read\s+--\s+4\s`, out)
}

// --- mark ---

func TestMarkCmd_CyclesToday(t *testing.T) {
	h := testutil.NewTestHabit("Run")
	app := testApp(t, h)
	today := domain.Today()

	out, err := executeCmd(t, app, "mark", "Run")
	require.NoError(t, err)
	assert.Contains(t, out, "Done")
	assert.Equal(t, domain.StatusDone, getHabit(t, app, h.ID).TrackedDays.Status(today))

	_, err = executeCmd(t, app, "mark", "run")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMissed, getHabit(t, app, h.ID).TrackedDays.Status(today))

	_, err = executeCmd(t, app, "mark", "Run")
	require.NoError(t, err)
	stored := getHabit(t, app, h.ID)
	assert.Empty(t, stored.TrackedDays, "pending must not be stored")
}

func TestMarkCmd_SetWithDate(t *testing.T) {
	h := testutil.NewTestHabit("Run")
	app := testApp(t, h)
	yesterday := domain.Today().AddDays(-1)

	_, err := executeCmd(t, app, "mark", "Run", "--date", "yesterday", "--set", "missed")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMissed, getHabit(t, app, h.ID).TrackedDays.Status(yesterday))

	_, err = executeCmd(t, app, "mark", "Run", "--date", string(yesterday), "--set", "pending")
	require.NoError(t, err)
	assert.Empty(t, getHabit(t, app, h.ID).TrackedDays)
}

func TestMarkCmd_InvalidFlags(t *testing.T) {
	app := testApp(t, testutil.NewTestHabit("Run"))

	_, err := executeCmd(t, app, "mark", "Run", "--date", "2024-02-30")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")

	_, err = executeCmd(t, app, "mark", "Run", "--set", "skipped")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "done, missed or pending")
}

// --- edit / remove ---

func TestEditCmd_RenameAndClearTime(t *testing.T) {
	h := testutil.NewTestHabit("Run", testutil.WithTimeLabel("7:00 AM"))
	app := testApp(t, h)

	out, err := executeCmd(t, app, "edit", "Run", "--name", "Evening Run", "--time", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated Evening Run")

	stored := getHabit(t, app, h.ID)
	assert.Equal(t, "Evening Run", stored.Name)
	assert.Empty(t, stored.Time)
}

func TestEditCmd_NothingToChange(t *testing.T) {
	app := testApp(t, testutil.NewTestHabit("Run"))
	_, err := executeCmd(t, app, "edit", "Run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")
}

func TestRemoveCmd(t *testing.T) {
	h := testutil.NewTestHabit("Run", testutil.WithDay(domain.Today(), domain.StatusDone))
	app := testApp(t, h)

	out, err := executeCmd(t, app, "remove", "Run", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed Run")

	_, err = app.Habits.Get(context.Background(), h.ID)
	assert.ErrorIs(t, err, domain.ErrHabitNotFound)

	_, err = executeCmd(t, app, "remove", "Run", "--yes")
	assert.ErrorIs(t, err, domain.ErrHabitNotFound)
}

// --- resolve ---

func TestResolveHabit(t *testing.T) {
	a := testutil.NewTestHabit("Run")
	b := testutil.NewTestHabit("Read")
	c := testutil.NewTestHabit("read")
	app := testApp(t, a, b, c)
	ctx := context.Background()

	got, err := resolveHabit(ctx, app, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	got, err = resolveHabit(ctx, app, "RUN")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	got, err = resolveHabit(ctx, app, a.ID[:12])
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = resolveHabit(ctx, app, "Read")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = resolveHabit(ctx, app, "Swim")
	assert.ErrorIs(t, err, domain.ErrHabitNotFound)

	_, err = resolveHabit(ctx, app, " ")
	assert.Error(t, err)
}

// --- show / history / streak ---

func TestShowCmd_RendersGrid(t *testing.T) {
	h := testutil.NewTestHabit("Run", testutil.WithStartDate("2024-01-15"))
	app := testApp(t, h)
	app.Now = func() time.Time { return time.Date(2024, 2, 10, 9, 0, 0, 0, time.Local) }

	out, err := executeCmd(t, app, "show", "Run")
	require.NoError(t, err)
	for _, label := range []string{"Jan 2024", "Feb 2024", "Mar 2024", "Apr 2024"} {
		assert.Contains(t, out, label)
	}
	assert.Contains(t, out, "2024-01-15")
}

func TestHistoryCmd_RendersMonthLabels(t *testing.T) {
	h := testutil.NewTestHabit("Run", testutil.WithStartDate("2023-01-01"))
	app := testApp(t, h)
	app.Now = func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.Local) }

	out, err := executeCmd(t, app, "history", "Run")
	require.NoError(t, err)
	assert.Contains(t, out, "RUN HISTORY")
	assert.Contains(t, out, "Jul")
	assert.Contains(t, out, "2023-06-11 to 2024-06-15")
}

func TestStreakCmd(t *testing.T) {
	today := domain.Today()
	run := testutil.NewTestHabit("Run", testutil.WithDoneRange(today.AddDays(-9), today))
	read := testutil.NewTestHabit("Read", testutil.WithDoneRange(today.AddDays(-2), today.AddDays(-1)))
	app := testApp(t, run, read)

	out, err := executeCmd(t, app, "streak", "Run")
	require.NoError(t, err)
	assert.Contains(t, out, "Run: 🔥 10 days")

	out, err = executeCmd(t, app, "streak")
	require.NoError(t, err)
	assert.Contains(t, out, "Run: 🔥 10 days")
	assert.Contains(t, out, "Read: 2 days")
}

// --- export / import ---

func TestExportImport_RoundTrip(t *testing.T) {
	today := domain.Today()
	h := testutil.NewTestHabit("Run",
		testutil.WithTimeLabel("6:00 AM"),
		testutil.WithDay(today, domain.StatusDone),
		testutil.WithDay(today.AddDays(-1), domain.StatusMissed),
	)
	src := testApp(t, h)

	path := filepath.Join(t.TempDir(), "backup.yaml")
	out, err := executeCmd(t, src, "export", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 habits")

	dst := testApp(t, testutil.NewTestHabit("Old"))
	out, err = executeCmd(t, dst, "import", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 created, 0 updated, 1 removed")

	restored := getHabit(t, dst, h.ID)
	assert.Equal(t, "Run", restored.Name)
	assert.Equal(t, "6:00 AM", restored.Time)
	assert.Equal(t, h.StartDate, restored.StartDate)
	assert.Equal(t, h.TrackedDays, restored.TrackedDays)
}

func TestExportCmd_Stdout(t *testing.T) {
	app := testApp(t, testutil.NewTestHabit("Run", testutil.WithStartDate("2024-03-01")))
	out, err := executeCmd(t, app, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "version: 1")
	assert.Contains(t, out, "name: Run")
	assert.Contains(t, out, "2024-03-01")
}

func TestImportCmd_Merge(t *testing.T) {
	keep := testutil.NewTestHabit("Keep")
	app := testApp(t, keep)

	path := filepath.Join(t.TempDir(), "backup.yaml")
	doc := "version: 1\nhabits:\n  - name: Stretch\n    start_date: \"2024-01-01\"\n    days:\n      \"2024-01-02\": done\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := executeCmd(t, app, "import", "--file", path, "--merge")
	require.NoError(t, err)
	assert.Contains(t, out, "1 created, 0 updated, 0 removed")

	habits, err := app.Habits.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, habits, 2)
}

func TestImportCmd_RequiresFile(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file")
}
