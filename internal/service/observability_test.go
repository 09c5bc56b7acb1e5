package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogUseCaseObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	ok := newEvent("cycle-day", "h1")
	ok.Day = "2024-03-01"
	ok.Fields["status"] = "done"
	ok.Fields["attempt"] = 1
	var noErr error
	observe(context.Background(), obs, ok, &noErr)

	failed := newEvent("delete-habit", "h2")
	boom := errors.New("locked")
	observe(context.Background(), obs, failed, &boom)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "level=INFO")
	assert.Contains(t, lines[0], "component=habits use_case=cycle-day")
	assert.Contains(t, lines[0], "habit=h1 day=2024-03-01 attempt=1 status=done")
	assert.Contains(t, lines[1], "level=ERROR")
	assert.Contains(t, lines[1], "error=locked")
	assert.NotContains(t, lines[1], "day=")
}

func TestNewLogUseCaseObserver_NilWriter(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestCombineObservers(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, combineObservers(nil))
	assert.IsType(t, NoopUseCaseObserver{}, combineObservers([]UseCaseObserver{nil}))

	a, b := &recordingObserver{}, &recordingObserver{}
	assert.Same(t, a, combineObservers([]UseCaseObserver{nil, a}))

	both := combineObservers([]UseCaseObserver{a, nil, b})
	both.ObserveUseCase(context.Background(), UseCaseEvent{Name: "create-habit"})
	assert.Equal(t, []string{"create-habit"}, a.names())
	assert.Equal(t, []string{"create-habit"}, b.names())
}

func TestZapUseCaseObserver(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	obs := NewZapUseCaseObserver(zap.New(core))

	ev := newEvent("set-day", "h1")
	ev.Day = "2024-03-01"
	ev.Fields["status"] = "missed"
	var noErr error
	observe(context.Background(), obs, ev, &noErr)

	boom := errors.New("locked")
	observe(context.Background(), obs, newEvent("create-habit", ""), &boom)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "habits", entries[0].LoggerName)
	assert.Equal(t, "habit write", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "set-day", ctx["use_case"])
	assert.Equal(t, "h1", ctx["habit"])
	assert.Equal(t, "2024-03-01", ctx["day"])
	assert.Equal(t, "missed", ctx["status"])

	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.Equal(t, "locked", entries[1].ContextMap()["error"])
	assert.NotContains(t, entries[1].ContextMap(), "habit")
}

func TestNewZapUseCaseObserver_NilLogger(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewZapUseCaseObserver(nil))
}
