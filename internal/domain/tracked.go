package domain

import (
	"fmt"
	"sort"
)

// TrackedDays maps a day to its status. Pending is never stored: a missing
// key means pending. Values are snapshots; every change returns a new map.
type TrackedDays map[DateKey]DayStatus

// Status returns the status of k, pending when k is absent.
func (t TrackedDays) Status(k DateKey) DayStatus {
	if s, ok := t[k]; ok {
		return s
	}
	return StatusPending
}

// Clone returns a copy of t. The copy is never nil.
func (t TrackedDays) Clone() TrackedDays {
	out := make(TrackedDays, len(t))
	for k, s := range t {
		out[k] = s
	}
	return out
}

// With returns a copy of t with k set to s. Setting pending removes k.
func (t TrackedDays) With(k DateKey, s DayStatus) TrackedDays {
	out := t.Clone()
	if s == StatusPending {
		delete(out, k)
	} else {
		out[k] = s
	}
	return out
}

// Cycle advances k to its next status and returns the new mapping together
// with that status.
func (t TrackedDays) Cycle(k DateKey) (TrackedDays, DayStatus) {
	next := t.Status(k).Next()
	return t.With(k, next), next
}

// Keys returns the tracked days in calendar order.
func (t TrackedDays) Keys() []DateKey {
	keys := make([]DateKey, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ChangedDays returns, in calendar order, the days whose status differs
// between t and next.
func (t TrackedDays) ChangedDays(next TrackedDays) []DateKey {
	var out []DateKey
	for k, s := range next {
		if t.Status(k) != s {
			out = append(out, k)
		}
	}
	for k := range t {
		if _, ok := next[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Count returns how many days hold status s. Pending is not countable.
func (t TrackedDays) Count(s DayStatus) int {
	n := 0
	for _, v := range t {
		if v == s {
			n++
		}
	}
	return n
}

// Validate checks that every key is well formed and that no key is bound to
// pending or an unknown status.
func (t TrackedDays) Validate() error {
	for _, k := range t.Keys() {
		if !k.Valid() {
			return fmt.Errorf("tracked day %q: invalid date key", string(k))
		}
		switch t[k] {
		case StatusDone, StatusMissed:
		case StatusPending:
			return fmt.Errorf("tracked day %s: pending must not be stored", k)
		default:
			return fmt.Errorf("tracked day %s: invalid status %q", k, string(t[k]))
		}
	}
	return nil
}

// Normalize returns a copy with pending entries dropped.
func (t TrackedDays) Normalize() TrackedDays {
	out := make(TrackedDays, len(t))
	for k, s := range t {
		if s != StatusPending {
			out[k] = s
		}
	}
	return out
}
