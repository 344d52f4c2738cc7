package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/shiftward/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	// MinClosingInterval is the smallest interval (in weeks) between two
	// closing duties for a worker who closes at all.
	MinClosingInterval = 2
	// MaxClosingInterval is the largest supported closing interval.
	MaxClosingInterval = 12
)

// ClampClosingInterval clamps a non-zero interval to the supported range.
// Zero means the worker never closes and is returned unchanged.
func ClampClosingInterval(interval int) int {
	if interval == 0 {
		return 0
	}
	if interval < MinClosingInterval {
		return MinClosingInterval
	}
	if interval > MaxClosingInterval {
		return MaxClosingInterval
	}
	return interval
}

// Worker is a department member who can hold closing duty and secondary
// task assignments.
type Worker struct {
	sharedDomain.BaseAggregateRoot
	departmentID    uuid.UUID
	firstName       string
	lastName        string
	closingInterval int
	qualifications  []string
}

// NewWorker creates a worker. The closing interval is clamped on creation;
// zero disables closing duty for the worker entirely.
func NewWorker(departmentID uuid.UUID, firstName, lastName string, closingInterval int, qualifications []string) *Worker {
	return &Worker{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		departmentID:      departmentID,
		firstName:         firstName,
		lastName:          lastName,
		closingInterval:   ClampClosingInterval(closingInterval),
		qualifications:    append([]string(nil), qualifications...),
	}
}

func (w *Worker) DepartmentID() uuid.UUID  { return w.departmentID }
func (w *Worker) FirstName() string        { return w.firstName }
func (w *Worker) LastName() string         { return w.lastName }
func (w *Worker) ClosingInterval() int     { return w.closingInterval }
func (w *Worker) Qualifications() []string { return w.qualifications }

// DisplayName returns the worker's full name.
func (w *Worker) DisplayName() string {
	return strings.TrimSpace(w.firstName + " " + w.lastName)
}

// IsQualifiedFor reports whether the worker holds the given task
// qualification.
func (w *Worker) IsQualifiedFor(taskID string) bool {
	for _, q := range w.qualifications {
		if q == taskID {
			return true
		}
	}
	return false
}

// SetClosingInterval updates the closing interval, clamping to the
// supported range.
func (w *Worker) SetClosingInterval(interval int) {
	w.closingInterval = ClampClosingInterval(interval)
	w.Touch()
}

// SetQualifications replaces the worker's qualification set.
func (w *Worker) SetQualifications(qualifications []string) {
	w.qualifications = append([]string(nil), qualifications...)
	w.Touch()
}

// RehydrateWorker recreates a worker from persisted state.
func RehydrateWorker(
	id uuid.UUID,
	departmentID uuid.UUID,
	firstName, lastName string,
	closingInterval int,
	qualifications []string,
	createdAt, updatedAt time.Time,
) *Worker {
	base := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &Worker{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(base),
		departmentID:      departmentID,
		firstName:         firstName,
		lastName:          lastName,
		closingInterval:   ClampClosingInterval(closingInterval),
		qualifications:    qualifications,
	}
}
