// Package schedule maps calendar dates onto curriculum (week, day) slots.
package schedule

import "time"

// Slot identifies a position in the curriculum calendar. Day follows the
// lesson convention 1=Monday..5=Friday; weekend dates yield 6 or 7 and match
// no lessons.
type Slot struct {
	Week int
	Day  int
}

// Resolve computes the slot for a given date relative to the family's
// curriculum start date. Families without a start date resolve to week 1 so a
// freshly registered account sees the first week's lessons immediately.
func Resolve(start *time.Time, today time.Time) Slot {
	slot := Slot{Week: 1, Day: weekday(today)}
	if start == nil || start.IsZero() {
		return slot
	}

	weeks := int(mondayOf(today).Sub(mondayOf(*start)).Hours() / (24 * 7))
	if weeks > 0 {
		slot.Week = weeks + 1
	}
	return slot
}

func weekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func mondayOf(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return t.AddDate(0, 0, 1-weekday(t))
}
