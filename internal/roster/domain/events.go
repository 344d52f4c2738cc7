package domain

import (
	sharedDomain "github.com/felixgeelhaar/shiftward/internal/shared/domain"
	"github.com/google/uuid"
)

// Event routing keys for the roster context.
const (
	RoutingKeyPlanGenerated   = "roster.plan.generated"
	RoutingKeyClosingComputed = "roster.closing.computed"
)

// PlanGenerated is emitted after a secondary-task plan was produced and
// persisted for a department range.
type PlanGenerated struct {
	sharedDomain.BaseEvent
	DepartmentID    uuid.UUID
	RangeStart      DateKey
	RangeEnd        DateKey
	AssignmentCount int
	WarningCount    int
	ChangedWorkers  []string
}

// NewPlanGenerated creates a PlanGenerated event.
func NewPlanGenerated(departmentID uuid.UUID, r DateRange, assignmentCount, warningCount int, changedWorkers []string) PlanGenerated {
	return PlanGenerated{
		BaseEvent:       sharedDomain.NewBaseEvent(departmentID, "Department", RoutingKeyPlanGenerated),
		DepartmentID:    departmentID,
		RangeStart:      NewDateKey(r.Start),
		RangeEnd:        NewDateKey(r.End),
		AssignmentCount: assignmentCount,
		WarningCount:    warningCount,
		ChangedWorkers:  changedWorkers,
	}
}

// ClosingScheduleComputed is emitted after a worker's closing schedule was
// recalculated.
type ClosingScheduleComputed struct {
	sharedDomain.BaseEvent
	DepartmentID uuid.UUID
	WorkerID     string
	RequiredLen  int
	OptimalLen   int
}

// NewClosingScheduleComputed creates a ClosingScheduleComputed event.
func NewClosingScheduleComputed(departmentID uuid.UUID, result ClosingResult) ClosingScheduleComputed {
	return ClosingScheduleComputed{
		BaseEvent:    sharedDomain.NewBaseEvent(departmentID, "Department", RoutingKeyClosingComputed),
		DepartmentID: departmentID,
		WorkerID:     result.WorkerID,
		RequiredLen:  len(result.RequiredDates),
		OptimalLen:   len(result.OptimalDates),
	}
}
