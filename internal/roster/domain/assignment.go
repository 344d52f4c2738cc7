package domain

import "sort"

// Assignment is the atomic scheduling output: one worker holding one task
// on one calendar day.
type Assignment struct {
	Date     DateKey
	TaskID   string
	WorkerID string
}

// CellKey returns the stable roster-cell key for the assignment.
func (a Assignment) CellKey() string {
	return string(a.Date) + "|" + a.TaskID
}

// AssignmentMap indexes assignments by roster cell key.
type AssignmentMap map[string]Assignment

// NewAssignmentMap builds a cell-keyed map from a list of assignments.
// A later assignment for the same cell replaces an earlier one.
func NewAssignmentMap(assignments []Assignment) AssignmentMap {
	m := make(AssignmentMap, len(assignments))
	for _, a := range assignments {
		m[a.CellKey()] = a
	}
	return m
}

// DetectChangedWorkers returns the ids of workers whose duty differs
// between two assignment snapshots. A worker counts as changed when any
// cell referencing them was added, removed, or reassigned to or from a
// different worker.
func DetectChangedWorkers(before, after AssignmentMap) map[string]struct{} {
	changed := make(map[string]struct{})
	for key, prev := range before {
		next, ok := after[key]
		if !ok {
			changed[prev.WorkerID] = struct{}{}
			continue
		}
		if next.WorkerID != prev.WorkerID {
			changed[prev.WorkerID] = struct{}{}
			changed[next.WorkerID] = struct{}{}
		}
	}
	for key, next := range after {
		if _, ok := before[key]; !ok {
			changed[next.WorkerID] = struct{}{}
		}
	}
	return changed
}

// SortedWorkerIDs returns the ids of a changed-worker set in ascending
// order, for stable logs and event payloads.
func SortedWorkerIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
