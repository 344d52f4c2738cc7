package domain

// PreferenceStatus classifies a worker's wish for a roster cell.
type PreferenceStatus string

const (
	// PreferencePreferred marks a cell the worker asked for.
	PreferencePreferred PreferenceStatus = "preferred"
	// PreferenceBlocked marks a cell the worker must not receive.
	PreferenceBlocked PreferenceStatus = "blocked"
)

// Preference is a worker's wish or veto for a date, optionally scoped to a
// single task. An empty TaskID with a blocked status blocks the whole day.
type Preference struct {
	WorkerID string
	Date     DateKey
	TaskID   string
	Status   PreferenceStatus
}

// BlocksWholeDay reports whether the preference vetoes every task on its day.
func (p Preference) BlocksWholeDay() bool {
	return p.Status == PreferenceBlocked && p.TaskID == ""
}

// Blocks reports whether the preference vetoes the given cell.
func (p Preference) Blocks(date DateKey, taskID string) bool {
	if p.Status != PreferenceBlocked || p.Date != date {
		return false
	}
	return p.TaskID == "" || p.TaskID == taskID
}

// Prefers reports whether the preference requests the given cell.
func (p Preference) Prefers(date DateKey, taskID string) bool {
	return p.Status == PreferencePreferred && p.Date == date && p.TaskID == taskID
}
