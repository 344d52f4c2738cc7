package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WorkerRepository defines persistence operations for workers.
type WorkerRepository interface {
	Save(ctx context.Context, worker *Worker) error
	FindByID(ctx context.Context, id uuid.UUID) (*Worker, error)
	FindByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*Worker, error)
}

// TaskRepository defines persistence operations for secondary tasks.
type TaskRepository interface {
	Save(ctx context.Context, departmentID uuid.UUID, task SecondaryTask) error
	FindByDepartment(ctx context.Context, departmentID uuid.UUID) ([]SecondaryTask, error)
}

// DutyRepository persists the primary roster and the closing history.
type DutyRepository interface {
	// Save upserts a primary duty block under the given id.
	Save(ctx context.Context, id uuid.UUID, departmentID uuid.UUID, duty PrimaryDuty) error
	FindByDepartmentAndRange(ctx context.Context, departmentID uuid.UUID, r DateRange) ([]PrimaryDuty, error)
	// RecordClosing stores an actual closing Friday for a worker.
	RecordClosing(ctx context.Context, departmentID uuid.UUID, workerID string, friday time.Time) error
	// LastClosingFriday returns the worker's most recent closing Friday
	// strictly before the given day, or the zero time if none exists.
	LastClosingFriday(ctx context.Context, workerID string, before time.Time) (time.Time, error)
}

// PreferenceRepository reads worker preferences.
type PreferenceRepository interface {
	Save(ctx context.Context, departmentID uuid.UUID, pref Preference) error
	FindByDepartmentAndRange(ctx context.Context, departmentID uuid.UUID, r DateRange) ([]Preference, error)
}

// AssignmentRepository persists secondary-task assignments.
type AssignmentRepository interface {
	// FindByDepartmentAndRange returns the stored assignments inside the
	// range.
	FindByDepartmentAndRange(ctx context.Context, departmentID uuid.UUID, r DateRange) ([]Assignment, error)
	// ReplaceRange atomically swaps the stored assignments inside the
	// range for the given set.
	ReplaceRange(ctx context.Context, departmentID uuid.UUID, r DateRange, assignments []Assignment) error
}

// StatsRepository reads department usage statistics.
type StatsRepository interface {
	FindByDepartment(ctx context.Context, departmentID uuid.UUID) (map[string]WorkerStats, error)
}
