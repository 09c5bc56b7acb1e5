package domain

import "fmt"

// DayStatus is the tracked state of one habit on one day.
type DayStatus string

const (
	StatusPending DayStatus = "pending"
	StatusDone    DayStatus = "done"
	StatusMissed  DayStatus = "missed"
)

// ValidDayStatuses is the canonical set of accepted status strings.
var ValidDayStatuses = map[string]bool{
	"pending": true, "done": true, "missed": true,
}

// ParseDayStatus converts user input to a DayStatus.
func ParseDayStatus(s string) (DayStatus, error) {
	if !ValidDayStatuses[s] {
		return "", fmt.Errorf("invalid day status %q (want pending, done or missed)", s)
	}
	return DayStatus(s), nil
}

// Next returns the status a click moves to: pending, done, missed, and back
// to pending. Anything unrecognised is treated as pending.
func (s DayStatus) Next() DayStatus {
	switch s {
	case StatusDone:
		return StatusMissed
	case StatusMissed:
		return StatusPending
	default:
		return StatusDone
	}
}

// Label returns the capitalised display name.
func (s DayStatus) Label() string {
	switch s {
	case StatusDone:
		return "Done"
	case StatusMissed:
		return "Missed"
	default:
		return "Pending"
	}
}
