package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/habitual/internal/domain"
)

// CommitFunc receives the outcome of a debounced edit. h is nil when err is
// set.
type CommitFunc func(h *domain.Habit, err error)

// Tracker keeps the in-memory list of habits that a UI renders. Local state
// changes only after the service reports success, and mutations are
// serialised so each one starts from the latest applied snapshot.
type Tracker struct {
	svc      HabitService
	debounce *Debouncer
	onCommit CommitFunc

	mu     sync.Mutex
	habits []*domain.Habit
	memos  map[string]*domain.StreakMemo
}

type TrackerOption func(*Tracker)

// WithCommitHook reports debounced edit results, which complete on a timer
// goroutine.
func WithCommitHook(fn CommitFunc) TrackerOption {
	return func(t *Tracker) {
		t.onCommit = fn
	}
}

func NewTracker(svc HabitService, editDelay time.Duration, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		svc:      svc,
		debounce: NewDebouncer(editDelay),
		memos:    make(map[string]*domain.StreakMemo),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load replaces the snapshot with the stored habits. On failure the
// snapshot is left as it was.
func (t *Tracker) Load(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	habits, err := t.svc.List(ctx)
	if err != nil {
		return err
	}
	t.habits = habits
	t.memos = make(map[string]*domain.StreakMemo, len(habits))
	return nil
}

// Habits returns copies of the habits in creation order.
func (t *Tracker) Habits() []*domain.Habit {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]*domain.Habit, len(t.habits))
	for i, h := range t.habits {
		out[i] = h.Clone()
	}
	return out
}

// Habit returns a copy of one habit.
func (t *Tracker) Habit(id string) (*domain.Habit, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i := t.indexOf(id); i >= 0 {
		return t.habits[i].Clone(), true
	}
	return nil, false
}

// Streak returns the habit's current streak, recomputed only when its
// tracked days, start date or today change.
func (t *Tracker) Streak(id string, today domain.DateKey) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return 0
	}
	memo, ok := t.memos[id]
	if !ok {
		memo = &domain.StreakMemo{}
		t.memos[id] = memo
	}
	h := t.habits[i]
	return memo.Get(h.TrackedDays, h.StartDate, today)
}

// Add creates a habit and appends it once stored.
func (t *Tracker) Add(ctx context.Context, name, timeLabel string) (*domain.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h, err := t.svc.Create(ctx, name, timeLabel)
	if err != nil {
		return nil, err
	}
	t.habits = append(t.habits, h)
	return h.Clone(), nil
}

// Remove deletes a habit. The local copy goes only when the store reports
// that a row was deleted.
func (t *Tracker) Remove(ctx context.Context, id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	deleted, err := t.svc.Delete(ctx, id)
	if err != nil || !deleted {
		return false, err
	}
	if i := t.indexOf(id); i >= 0 {
		t.habits = append(t.habits[:i:i], t.habits[i+1:]...)
	}
	delete(t.memos, id)
	return true, nil
}

// CycleDay advances one day of a habit and persists the whole cycled
// mapping. It returns the new status.
func (t *Tracker) CycleDay(ctx context.Context, id string, day domain.DateKey) (domain.DayStatus, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrHabitNotFound, id)
	}
	next, status := t.habits[i].TrackedDays.Cycle(day)
	updated, err := t.svc.Update(ctx, id, domain.DaysPatch(next))
	if err != nil {
		return "", err
	}
	t.replace(updated)
	return status, nil
}

// EditName schedules a rename. Repeated edits within the delay collapse
// into one write carrying the last value.
func (t *Tracker) EditName(ctx context.Context, id, name string) {
	t.scheduleEdit(ctx, id+":name", id, domain.NamePatch(name))
}

// EditTime schedules a time label change, debounced like EditName.
func (t *Tracker) EditTime(ctx context.Context, id, label string) {
	t.scheduleEdit(ctx, id+":time", id, domain.TimePatch(label))
}

func (t *Tracker) scheduleEdit(ctx context.Context, key, id string, patch domain.HabitPatch) {
	ctx = context.WithoutCancel(ctx)
	t.debounce.Schedule(key, func() {
		h, err := t.commit(ctx, id, patch)
		if t.onCommit != nil {
			t.onCommit(h, err)
		}
	})
}

func (t *Tracker) commit(ctx context.Context, id string, patch domain.HabitPatch) (*domain.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	updated, err := t.svc.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if !t.replace(updated) {
		// Removed locally while the edit was waiting.
		return nil, fmt.Errorf("%w: %s", domain.ErrHabitNotFound, id)
	}
	return updated.Clone(), nil
}

// Flush commits every waiting edit now.
func (t *Tracker) Flush() {
	t.debounce.Flush()
}

// Close drops waiting edits.
func (t *Tracker) Close() {
	t.debounce.Stop()
}

// PendingEdits reports how many edits are waiting for their quiet period.
func (t *Tracker) PendingEdits() int {
	return t.debounce.Pending()
}

func (t *Tracker) indexOf(id string) int {
	for i, h := range t.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func (t *Tracker) replace(h *domain.Habit) bool {
	i := t.indexOf(h.ID)
	if i < 0 {
		return false
	}
	t.habits[i] = h
	return true
}
