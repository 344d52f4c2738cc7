package domain

import "time"

// PrimaryDuty is a contiguous block of primary-roster days held by one
// worker. Primary duty makes the worker unavailable for secondary tasks on
// every covered day, and a duty that spans a weekend forces a mandatory
// closing on that weekend's Friday.
type PrimaryDuty struct {
	WorkerID string
	Start    time.Time
	End      time.Time
}

// Days lists every calendar day covered by the duty.
func (d PrimaryDuty) Days() []time.Time {
	return NewDateRange(d.Start, d.End).Days()
}

// MandatoryFridays returns the Fridays of every weekend the duty spans,
// that is, every week whose Friday and Saturday are both covered.
func (d PrimaryDuty) MandatoryFridays() []time.Time {
	covered := make(map[DateKey]bool)
	for _, day := range d.Days() {
		covered[NewDateKey(day)] = true
	}
	var fridays []time.Time
	for _, day := range d.Days() {
		if day.Weekday() != time.Friday {
			continue
		}
		saturday := day.AddDate(0, 0, 1)
		if covered[NewDateKey(saturday)] {
			fridays = append(fridays, day)
		}
	}
	return fridays
}
