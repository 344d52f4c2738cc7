package domain

import "sort"

// SecondaryTask is a recurring duty cell in the weekly roster grid.
type SecondaryTask struct {
	// ID is the stable task identifier used in qualifications,
	// preferences and assignments.
	ID string
	// Name is the human-readable task name.
	Name string
	// RequiresQualification restricts the task to qualified workers.
	RequiresQualification bool
	// AutoAssign marks the task as eligible for automatic planning;
	// manual-only tasks are left to the roster manager.
	AutoAssign bool
	// AssignWeekends marks the task as a weekend task, staffed as a
	// Thursday–Friday–Saturday triad held by a single worker.
	AssignWeekends bool
}

// QualifiedCount returns how many of the given workers may hold the task.
// Tasks without a qualification requirement are open to every worker.
func (t SecondaryTask) QualifiedCount(workers map[string]WorkerSnapshot) int {
	if !t.RequiresQualification {
		return len(workers)
	}
	n := 0
	for _, w := range workers {
		if w.Profile.IsQualifiedFor(t.ID) {
			n++
		}
	}
	return n
}

// SortTasksByScarcity orders tasks so that the ones with the fewest
// qualified workers are planned first. Ties break on task id to keep
// planning deterministic.
func SortTasksByScarcity(tasks []SecondaryTask, workers map[string]WorkerSnapshot) []SecondaryTask {
	sorted := append([]SecondaryTask(nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		qi := sorted[i].QualifiedCount(workers)
		qj := sorted[j].QualifiedCount(workers)
		if qi != qj {
			return qi < qj
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
