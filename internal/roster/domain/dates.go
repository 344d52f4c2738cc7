package domain

import (
	"fmt"
	"time"
)

// DateKeyLayout is the canonical DD/MM/YYYY format used for all roster date
// keys. Keys compare by calendar day only; time-of-day and timezone are
// normalized away so that snapshots built in different locations agree.
const DateKeyLayout = "02/01/2006"

// DateKey is a calendar date in DD/MM/YYYY form.
type DateKey string

// NewDateKey creates a date key from a time value, dropping time-of-day.
func NewDateKey(t time.Time) DateKey {
	return DateKey(t.Format(DateKeyLayout))
}

// ParseDateKey parses a DD/MM/YYYY key into a UTC midnight time.
func ParseDateKey(key DateKey) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, string(key), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// Truncate normalizes a time to UTC midnight of the same calendar day.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// WeekStart returns the Sunday that starts the roster week containing t.
// The roster week runs Sunday through Saturday; Thursday, Friday and
// Saturday form the weekend block.
func WeekStart(t time.Time) time.Time {
	d := Truncate(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// FridayOf returns the Friday of the roster week containing t.
func FridayOf(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 5)
}

// IsWeekendDay reports whether t falls in the Thursday–Saturday weekend block.
func IsWeekendDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Thursday, time.Friday, time.Saturday:
		return true
	}
	return false
}

// DateRange is an inclusive calendar date range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a range from two times, normalized to calendar days.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Truncate(start), End: Truncate(end)}
}

// Contains reports whether the day of t lies within the range.
func (r DateRange) Contains(t time.Time) bool {
	d := Truncate(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns every calendar day of the range in ascending order.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ExpandToWeeks widens the range outward to full Sunday–Saturday weeks.
func (r DateRange) ExpandToWeeks() DateRange {
	start := WeekStart(r.Start)
	end := WeekStart(r.End).AddDate(0, 0, 6)
	return DateRange{Start: start, End: end}
}

// FridaysIn lists every Friday inside the range, ascending.
func FridaysIn(r DateRange) []time.Time {
	var fridays []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Friday {
			fridays = append(fridays, d)
		}
	}
	return fridays
}
