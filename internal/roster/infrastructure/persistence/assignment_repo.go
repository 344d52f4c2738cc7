package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/felixgeelhaar/shiftward/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// AssignmentRepository implements domain.AssignmentRepository.
type AssignmentRepository struct {
	conn database.Connection
}

// NewAssignmentRepository creates an assignment repository.
func NewAssignmentRepository(conn database.Connection) *AssignmentRepository {
	return &AssignmentRepository{conn: conn}
}

// FindByDepartmentAndRange lists assignments dated inside the range.
func (r *AssignmentRepository) FindByDepartmentAndRange(ctx context.Context, departmentID uuid.UUID, rng domain.DateRange) ([]domain.Assignment, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT assign_date, task_id, worker_id
		FROM assignments
		WHERE department_id = ? AND assign_date >= ? AND assign_date <= ?
		ORDER BY assign_date, task_id`,
		departmentID.String(),
		rng.Start.Format(isoDate),
		rng.End.Format(isoDate))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []domain.Assignment
	for rows.Next() {
		var assignDate, taskID, workerID string
		if err := rows.Scan(&assignDate, &taskID, &workerID); err != nil {
			return nil, err
		}
		day, err := time.ParseInLocation(isoDate, assignDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid assignment date %q: %w", assignDate, err)
		}
		assignments = append(assignments, domain.Assignment{
			Date:     domain.NewDateKey(day),
			TaskID:   taskID,
			WorkerID: workerID,
		})
	}
	return assignments, rows.Err()
}

// ReplaceRange swaps the stored assignments inside the range for the given
// set: delete then re-insert, mirroring how the roster grid is rewritten
// as one unit after every planning run.
func (r *AssignmentRepository) ReplaceRange(ctx context.Context, departmentID uuid.UUID, rng domain.DateRange, assignments []domain.Assignment) error {
	err := r.conn.Exec(ctx, `
		DELETE FROM assignments
		WHERE department_id = ? AND assign_date >= ? AND assign_date <= ?`,
		departmentID.String(),
		rng.Start.Format(isoDate),
		rng.End.Format(isoDate))
	if err != nil {
		return err
	}

	for _, a := range assignments {
		day, err := domain.ParseDateKey(a.Date)
		if err != nil {
			return err
		}
		err = r.conn.Exec(ctx, `
			INSERT INTO assignments (department_id, assign_date, task_id, worker_id)
			VALUES (?, ?, ?, ?)`,
			departmentID.String(), day.Format(isoDate), a.TaskID, a.WorkerID)
		if err != nil {
			return err
		}
	}
	return nil
}
