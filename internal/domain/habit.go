package domain

import (
	"errors"
	"time"
)

// ErrHabitNotFound is returned when no habit matches an ID.
var ErrHabitNotFound = errors.New("habit not found")

// DefaultHabitName is used when a habit is created without a name.
const DefaultHabitName = "New Habit"

type Habit struct {
	ID          string
	Name        string
	Time        string
	StartDate   DateKey
	TrackedDays TrackedDays
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayID returns the first 8 characters of the ID.
func (h *Habit) DisplayID() string {
	if len(h.ID) >= 8 {
		return h.ID[:8]
	}
	return h.ID
}

// DisplayName returns the name, or the default name when blank.
func (h *Habit) DisplayName() string {
	if h.Name == "" {
		return DefaultHabitName
	}
	return h.Name
}

// Clone returns a deep copy so callers can hand out snapshots.
func (h *Habit) Clone() *Habit {
	c := *h
	c.TrackedDays = h.TrackedDays.Clone()
	return &c
}

// HabitPatch is a partial update. Nil fields are left unchanged; a nil
// TrackedDays keeps the current mapping, a non-nil one replaces it.
type HabitPatch struct {
	Name        *string
	Time        *string
	TrackedDays TrackedDays
}

// IsEmpty reports whether the patch changes nothing.
func (p HabitPatch) IsEmpty() bool {
	return p.Name == nil && p.Time == nil && p.TrackedDays == nil
}

// ApplyTo returns a copy of h with the patch applied.
func (p HabitPatch) ApplyTo(h *Habit, now time.Time) *Habit {
	out := h.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Time != nil {
		out.Time = *p.Time
	}
	if p.TrackedDays != nil {
		out.TrackedDays = p.TrackedDays.Normalize()
	}
	out.UpdatedAt = now
	return out
}

// NamePatch returns a patch that only renames.
func NamePatch(name string) HabitPatch { return HabitPatch{Name: &name} }

// TimePatch returns a patch that only changes the time label.
func TimePatch(label string) HabitPatch { return HabitPatch{Time: &label} }

// DaysPatch returns a patch that only replaces the tracked days.
func DaysPatch(days TrackedDays) HabitPatch {
	if days == nil {
		days = TrackedDays{}
	}
	return HabitPatch{TrackedDays: days}
}
