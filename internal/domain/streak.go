package domain

import (
	"reflect"
	"sync"
)

// Streak counts consecutive done days ending today, or yesterday when today
// is not done yet. An unfinished today neither breaks nor extends the
// streak. Any day that is not done stops the count, and days before start
// never count.
func Streak(days TrackedDays, start, today DateKey) int {
	cursor := today
	if days.Status(today) != StatusDone {
		cursor = today.AddDays(-1)
	}

	streak := 0
	for !cursor.Before(start) {
		if days.Status(cursor) != StatusDone {
			break
		}
		streak++
		cursor = cursor.AddDays(-1)
	}
	return streak
}

// StreakMemo caches one Streak result. TrackedDays are replaced rather than
// mutated, so the identity of the map stands in for its contents. The memo
// holds on to the map it was computed from, which keeps that address from
// being handed to a later snapshot.
type StreakMemo struct {
	mu    sync.Mutex
	valid bool
	days  TrackedDays
	start DateKey
	today DateKey
	value int
}

// Get returns the streak for the inputs, recomputing only when one of them
// differs from the previous call.
func (m *StreakMemo) Get(days TrackedDays, start, today DateKey) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && sameMap(m.days, days) && m.start == start && m.today == today {
		return m.value
	}
	m.value = Streak(days, start, today)
	m.valid = true
	m.days = days
	m.start = start
	m.today = today
	return m.value
}

// sameMap reports whether a and b are the same map value. Two nil maps
// match; a nil and an empty map do not, which only costs a recompute.
func sameMap(a, b TrackedDays) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// Reset drops the cached value.
func (m *StreakMemo) Reset() {
	m.mu.Lock()
	m.valid = false
	m.days = nil
	m.mu.Unlock()
}
