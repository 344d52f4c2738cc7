package domain

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotTTL is how long a planning snapshot stays valid after assembly.
// The engine refuses to plan from anything older; the caller rebuilds.
const SnapshotTTL = 5 * time.Minute

// WorkerProfile is the denormalized worker record carried in a snapshot.
type WorkerProfile struct {
	FirstName       string
	LastName        string
	ClosingInterval int
	Qualifications  []string
}

// IsQualifiedFor reports whether the profile holds the given qualification.
func (p WorkerProfile) IsQualifiedFor(taskID string) bool {
	for _, q := range p.Qualifications {
		if q == taskID {
			return true
		}
	}
	return false
}

// WorkerSnapshot bundles everything the planner needs about one worker.
type WorkerSnapshot struct {
	Profile WorkerProfile
	// PrimaryBusyDays are days occupied by primary duty; the worker can
	// hold no secondary assignment on them.
	PrimaryBusyDays []DateKey
	// LastClosingFriday is the worker's most recent actual closing
	// before the window, empty if the worker has never closed.
	LastClosingFriday DateKey
	// MandatoryClosingDates are Fridays forced by weekend-spanning
	// primary duty.
	MandatoryClosingDates []DateKey
	// OptimalClosingDates are the calculator's spacing-preserving
	// Fridays; never overlapping a mandatory date.
	OptimalClosingDates []DateKey
	// Preferences are the worker's wishes and vetoes inside the window.
	Preferences []Preference
}

// IsBusyOn reports a primary-duty conflict on the given day.
func (w WorkerSnapshot) IsBusyOn(date DateKey) bool {
	for _, d := range w.PrimaryBusyDays {
		if d == date {
			return true
		}
	}
	return false
}

// HasMandatoryClosing reports whether the Friday is forced for the worker.
func (w WorkerSnapshot) HasMandatoryClosing(friday DateKey) bool {
	for _, d := range w.MandatoryClosingDates {
		if d == friday {
			return true
		}
	}
	return false
}

// HasOptimalClosing reports whether the Friday is one of the worker's
// computed optimal closing dates.
func (w WorkerSnapshot) HasOptimalClosing(friday DateKey) bool {
	for _, d := range w.OptimalClosingDates {
		if d == friday {
			return true
		}
	}
	return false
}

// BlockedFor reports whether a preference vetoes the cell, either directly
// or through a whole-day block.
func (w WorkerSnapshot) BlockedFor(date DateKey, taskID string) bool {
	for _, p := range w.Preferences {
		if p.Blocks(date, taskID) {
			return true
		}
	}
	return false
}

// Prefers reports whether the worker asked for the cell.
func (w WorkerSnapshot) Prefers(date DateKey, taskID string) bool {
	for _, p := range w.Preferences {
		if p.Prefers(date, taskID) {
			return true
		}
	}
	return false
}

// WorkerStats carries department-wide usage statistics used for ranking
// tie-breaks and fairness scoring.
type WorkerStats struct {
	// TotalSecondary counts the worker's historical secondary
	// assignments.
	TotalSecondary int
	// ClosingAccuracyPct measures how closely the worker's actual
	// closings track the optimal dates.
	ClosingAccuracyPct float64
}

// PlanningSnapshot is the read-only, time-boxed planning input. It is
// assembled outside the engine, owned by the caller, and never mutated by
// the planner.
type PlanningSnapshot struct {
	GeneratedAt   time.Time
	DepartmentID  uuid.UUID
	SelectedRange DateRange
	// Window is the selected range widened to full Sunday–Saturday weeks.
	Window  DateRange
	Fridays []DateKey
	Stats   map[string]WorkerStats
	Workers map[string]WorkerSnapshot
}

// Expired reports whether the snapshot is older than SnapshotTTL at the
// given instant.
func (s *PlanningSnapshot) Expired(now time.Time) bool {
	return now.Sub(s.GeneratedAt) > SnapshotTTL
}

// WeekIndexOf maps a Friday key to its 1-based position in the snapshot's
// window-wide Friday list.
func (s *PlanningSnapshot) WeekIndexOf(friday DateKey) (int, bool) {
	for i, f := range s.Fridays {
		if f == friday {
			return i + 1, true
		}
	}
	return 0, false
}

// StatsFor returns the worker's statistics, zero-valued when absent.
func (s *PlanningSnapshot) StatsFor(workerID string) WorkerStats {
	if s.Stats == nil {
		return WorkerStats{}
	}
	return s.Stats[workerID]
}
