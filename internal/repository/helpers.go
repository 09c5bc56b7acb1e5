package repository

import (
	"fmt"
	"time"
)

// timestampLayout is RFC 3339 with fixed-width nanoseconds, so stored
// timestamps sort lexically in time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s, column string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

// nowUTC returns the current UTC time in the stored layout.
func nowUTC() string {
	return formatTimestamp(time.Now())
}
