package service

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/alexanderramin/habitual/internal/domain"
)

// UseCaseEvent describes one finished write against the habit store.
type UseCaseEvent struct {
	Name      string
	HabitID   string
	Day       domain.DateKey
	StartedAt time.Time
	Duration  time.Duration
	Err       error
	Fields    map[string]any
}

// Success reports whether the write went through.
func (e UseCaseEvent) Success() bool { return e.Err == nil }

// UseCaseObserver is told about every create, update, delete and import.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver drops events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

// slogObserver writes one record per event. Failures log at error level.
type slogObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver logs events as slog text records to w. A nil
// writer yields a no-op observer.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &slogObserver{logger: slog.New(h).With("component", "habits")}
}

func (o *slogObserver) ObserveUseCase(ctx context.Context, e UseCaseEvent) {
	attrs := []slog.Attr{
		slog.String("use_case", e.Name),
		slog.Int64("duration_ms", e.Duration.Milliseconds()),
	}
	if e.HabitID != "" {
		attrs = append(attrs, slog.String("habit", e.HabitID))
	}
	if e.Day != "" {
		attrs = append(attrs, slog.String("day", string(e.Day)))
	}
	// Sorted so repeated runs produce identical lines.
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, e.Fields[k]))
	}

	level := slog.LevelInfo
	if e.Err != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	o.logger.LogAttrs(ctx, level, "habit_write", attrs...)
}

// fanOut forwards each event to every observer in order.
type fanOut []UseCaseObserver

func (f fanOut) ObserveUseCase(ctx context.Context, e UseCaseEvent) {
	for _, obs := range f {
		obs.ObserveUseCase(ctx, e)
	}
}

func combineObservers(observers []UseCaseObserver) UseCaseObserver {
	var live fanOut
	for _, obs := range observers {
		if obs != nil {
			live = append(live, obs)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	}
	return live
}

func newEvent(name, habitID string) *UseCaseEvent {
	return &UseCaseEvent{Name: name, HabitID: habitID, StartedAt: time.Now(), Fields: map[string]any{}}
}

// observe is deferred by each write with its event and a pointer to its
// named error result, so the report carries the final outcome.
func observe(ctx context.Context, obs UseCaseObserver, ev *UseCaseEvent, errp *error) {
	ev.Duration = time.Since(ev.StartedAt)
	ev.Err = *errp
	obs.ObserveUseCase(ctx, *ev)
}
