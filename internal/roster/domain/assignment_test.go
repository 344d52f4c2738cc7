package domain_test

import (
	"testing"

	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/stretchr/testify/assert"
)

func TestDetectChangedWorkers_Reassigned(t *testing.T) {
	before := domain.NewAssignmentMap([]domain.Assignment{
		{Date: "04/09/2026", TaskID: "bar", WorkerID: "alice"},
	})
	after := domain.NewAssignmentMap([]domain.Assignment{
		{Date: "04/09/2026", TaskID: "bar", WorkerID: "bob"},
	})

	changed := domain.DetectChangedWorkers(before, after)

	// Both sides of a reassignment count as changed.
	assert.Equal(t, []string{"alice", "bob"}, domain.SortedWorkerIDs(changed))
}

func TestDetectChangedWorkers_AddedAndRemoved(t *testing.T) {
	before := domain.NewAssignmentMap([]domain.Assignment{
		{Date: "04/09/2026", TaskID: "bar", WorkerID: "alice"},
	})
	after := domain.NewAssignmentMap([]domain.Assignment{
		{Date: "05/09/2026", TaskID: "bar", WorkerID: "carol"},
	})

	changed := domain.DetectChangedWorkers(before, after)

	assert.Equal(t, []string{"alice", "carol"}, domain.SortedWorkerIDs(changed))
}

func TestDetectChangedWorkers_Unchanged(t *testing.T) {
	assignments := []domain.Assignment{
		{Date: "04/09/2026", TaskID: "bar", WorkerID: "alice"},
		{Date: "05/09/2026", TaskID: "kitchen", WorkerID: "bob"},
	}
	before := domain.NewAssignmentMap(assignments)
	after := domain.NewAssignmentMap(assignments)

	changed := domain.DetectChangedWorkers(before, after)

	assert.Empty(t, changed)
}

func TestAssignment_CellKey(t *testing.T) {
	a := domain.Assignment{Date: "04/09/2026", TaskID: "bar", WorkerID: "alice"}
	assert.Equal(t, "04/09/2026|bar", a.CellKey())
}
