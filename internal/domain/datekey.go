package domain

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the canonical layout of a DateKey.
const DateLayout = "2006-01-02"

// DateKey identifies a calendar day as "YYYY-MM-DD". It carries no time of
// day and no zone, so two keys are equal exactly when they name the same day.
type DateKey string

// KeyOf returns the key of the calendar day t falls on in t's own location.
func KeyOf(t time.Time) DateKey {
	y, m, d := t.Date()
	return DateKey(fmt.Sprintf("%04d-%02d-%02d", y, int(m), d))
}

// Today returns the key of the current local day.
func Today() DateKey {
	return KeyOf(time.Now())
}

// ParseKey validates s and returns it as a DateKey. Use it for user input;
// internally generated keys go through KeyOf.
func ParseKey(s string) (DateKey, error) {
	if _, _, _, err := splitKey(s); err != nil {
		return "", err
	}
	return DateKey(s), nil
}

// splitKey extracts the calendar components of s and checks that they name
// a real day.
func splitKey(s string) (int, time.Month, int, error) {
	if len(s) != len(DateLayout) || s[4] != '-' || s[7] != '-' {
		return 0, 0, 0, fmt.Errorf("invalid date key %q: want YYYY-MM-DD", s)
	}
	y, errY := strconv.Atoi(s[0:4])
	m, errM := strconv.Atoi(s[5:7])
	d, errD := strconv.Atoi(s[8:10])
	if errY != nil || errM != nil || errD != nil || y < 1 {
		return 0, 0, 0, fmt.Errorf("invalid date key %q: want YYYY-MM-DD", s)
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return 0, 0, 0, fmt.Errorf("invalid date key %q: month or day out of range", s)
	}
	// time.Date normalises Feb 30 to Mar 2, and Atoi tolerates signs; either
	// shows up as a key that does not format back to s.
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if string(KeyOf(t)) != s {
		return 0, 0, 0, fmt.Errorf("invalid date key %q: no such day", s)
	}
	return y, time.Month(m), d, nil
}

// MustParseKey is ParseKey for keys known to be well formed. It panics on
// malformed input.
func MustParseKey(s string) DateKey {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// Valid reports whether k is a well-formed key.
func (k DateKey) Valid() bool {
	_, err := ParseKey(string(k))
	return err == nil
}

func (k DateKey) String() string { return string(k) }

// ymd splits the key into calendar components. It panics on a malformed key.
func (k DateKey) ymd() (int, time.Month, int) {
	y, m, d, err := splitKey(string(k))
	if err != nil {
		panic(err)
	}
	return y, m, d
}

// TimeIn returns midnight of the day in loc, built from the calendar
// components rather than from a parsed timestamp.
func (k DateKey) TimeIn(loc *time.Location) time.Time {
	y, m, d := k.ymd()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Time returns local midnight of the day.
func (k DateKey) Time() time.Time {
	return k.TimeIn(time.Local)
}

// AddDays shifts the key by n calendar days. The arithmetic runs on calendar
// components in UTC, so DST transitions never move the result.
func (k DateKey) AddDays(n int) DateKey {
	y, m, d := k.ymd()
	return KeyOf(time.Date(y, m, d+n, 0, 0, 0, 0, time.UTC))
}

// AddYears shifts the key by n calendar years. Feb 29 normalises to Mar 1
// in non-leap target years.
func (k DateKey) AddYears(n int) DateKey {
	y, m, d := k.ymd()
	return KeyOf(time.Date(y+n, m, d, 0, 0, 0, 0, time.UTC))
}

// Weekday returns the day of the week (Sunday = 0).
func (k DateKey) Weekday() time.Weekday {
	return k.TimeIn(time.UTC).Weekday()
}

// Day returns the day of the month.
func (k DateKey) Day() int {
	_, _, d := k.ymd()
	return d
}

// Month returns the calendar month.
func (k DateKey) Month() time.Month {
	_, m, _ := k.ymd()
	return m
}

// Year returns the calendar year.
func (k DateKey) Year() int {
	y, _, _ := k.ymd()
	return y
}

// Before reports whether k is an earlier day than other. Keys order
// lexically in calendar order.
func (k DateKey) Before(other DateKey) bool { return k < other }

// After reports whether k is a later day than other.
func (k DateKey) After(other DateKey) bool { return k > other }

// DaysUntil returns the number of calendar days from k to other; negative
// when other is earlier.
func (k DateKey) DaysUntil(other DateKey) int {
	a := k.TimeIn(time.UTC)
	b := other.TimeIn(time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
