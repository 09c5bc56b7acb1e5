package domain

import (
	"fmt"
	"time"
)

const (
	// ForwardWindowDays is the length of the habit detail grid.
	ForwardWindowDays = 90

	// monthLabelGapWeeks is the minimum spacing between two month labels on
	// the history heat map.
	monthLabelGapWeeks = 3
)

// DayCell is one rendered day of a window.
type DayCell struct {
	Key     DateKey
	Status  DayStatus
	IsToday bool
}

func newCell(k DateKey, days TrackedDays, today DateKey) DayCell {
	return DayCell{Key: k, Status: days.Status(k), IsToday: k == today}
}

// MonthGroup is the run of window days that fall into one calendar month.
type MonthGroup struct {
	Label string // e.g. "Jan 2024"
	// LeadingBlanks is the weekday (Sunday = 0) of the first day in the
	// group, the number of empty cells before it in a Sunday-first row.
	LeadingBlanks int
	Days          []DayCell
}

// ForwardGrid is the 90-day window starting at a habit's start date.
type ForwardGrid struct {
	Start  DateKey
	Months []MonthGroup
}

// Keys returns every day of the grid in order.
func (g ForwardGrid) Keys() []DateKey {
	keys := make([]DateKey, 0, ForwardWindowDays)
	for _, m := range g.Months {
		for _, d := range m.Days {
			keys = append(keys, d.Key)
		}
	}
	return keys
}

// Contains reports whether k lies inside the grid.
func (g ForwardGrid) Contains(k DateKey) bool {
	return !k.Before(g.Start) && k.Before(g.Start.AddDays(ForwardWindowDays))
}

// MonthLabel returns the short month name and year of k.
func MonthLabel(k DateKey) string {
	return fmt.Sprintf("%s %d", shortMonth(k.Month()), k.Year())
}

func shortMonth(m time.Month) string {
	return m.String()[:3]
}

// ForwardWindow lays out ForwardWindowDays consecutive days from start,
// grouped by calendar month in chronological order.
func ForwardWindow(start, today DateKey, days TrackedDays) ForwardGrid {
	grid := ForwardGrid{Start: start}
	for i := 0; i < ForwardWindowDays; i++ {
		k := start.AddDays(i)
		label := MonthLabel(k)
		if n := len(grid.Months); n == 0 || grid.Months[n-1].Label != label {
			grid.Months = append(grid.Months, MonthGroup{
				Label:         label,
				LeadingBlanks: int(k.Weekday()),
			})
		}
		g := &grid.Months[len(grid.Months)-1]
		g.Days = append(g.Days, newCell(k, days, today))
	}
	return grid
}

// HistoryLabel anchors a month name above a heat map column.
type HistoryLabel struct {
	Month     string
	WeekIndex int
}

// History is the backward window covering the last year, aligned so the
// first cell is a Sunday.
type History struct {
	Start  DateKey
	Today  DateKey
	Cells  []DayCell
	Labels []HistoryLabel
}

// Weeks splits the cells into Sunday-first columns of seven. The last
// column may be short.
func (h History) Weeks() [][]DayCell {
	var weeks [][]DayCell
	for i := 0; i < len(h.Cells); i += 7 {
		end := min(i+7, len(h.Cells))
		weeks = append(weeks, h.Cells[i:end])
	}
	return weeks
}

// HistoryStart returns the first day of the backward window for today:
// one calendar year back, then back again to the nearest Sunday.
func HistoryStart(today DateKey) DateKey {
	yearAgo := today.AddYears(-1)
	return yearAgo.AddDays(-int(yearAgo.Weekday()))
}

// BackwardWindow lists every day from HistoryStart(today) through today
// and places month labels at the first of each month, skipping a label that
// would sit within three weeks of one already placed.
func BackwardWindow(today DateKey, days TrackedDays) History {
	start := HistoryStart(today)
	h := History{Start: start, Today: today}

	for k, i := start, 0; !k.After(today); k, i = k.AddDays(1), i+1 {
		h.Cells = append(h.Cells, newCell(k, days, today))
		if k.Day() != 1 {
			continue
		}
		week := i / 7
		if labelNear(h.Labels, week) {
			continue
		}
		h.Labels = append(h.Labels, HistoryLabel{Month: shortMonth(k.Month()), WeekIndex: week})
	}
	return h
}

func labelNear(labels []HistoryLabel, week int) bool {
	for _, l := range labels {
		d := l.WeekIndex - week
		if d < 0 {
			d = -d
		}
		if d < monthLabelGapWeeks {
			return true
		}
	}
	return false
}
