package persistence

import (
	"context"

	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/felixgeelhaar/shiftward/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// TaskRepository implements domain.TaskRepository.
type TaskRepository struct {
	conn database.Connection
}

// NewTaskRepository creates a task repository.
func NewTaskRepository(conn database.Connection) *TaskRepository {
	return &TaskRepository{conn: conn}
}

// Save upserts a secondary task for a department.
func (r *TaskRepository) Save(ctx context.Context, departmentID uuid.UUID, task domain.SecondaryTask) error {
	err := r.conn.Exec(ctx, `
		DELETE FROM secondary_tasks WHERE department_id = ? AND id = ?`,
		departmentID.String(), task.ID)
	if err != nil {
		return err
	}
	return r.conn.Exec(ctx, `
		INSERT INTO secondary_tasks (department_id, id, name, requires_qualification, auto_assign, assign_weekends)
		VALUES (?, ?, ?, ?, ?, ?)`,
		departmentID.String(),
		task.ID,
		task.Name,
		boolToInt(task.RequiresQualification),
		boolToInt(task.AutoAssign),
		boolToInt(task.AssignWeekends),
	)
}

// FindByDepartment lists a department's secondary tasks ordered by id.
func (r *TaskRepository) FindByDepartment(ctx context.Context, departmentID uuid.UUID) ([]domain.SecondaryTask, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, name, requires_qualification, auto_assign, assign_weekends
		FROM secondary_tasks WHERE department_id = ? ORDER BY id`,
		departmentID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.SecondaryTask
	for rows.Next() {
		var (
			task                               domain.SecondaryTask
			requiresQual, autoAssign, weekends int
		)
		if err := rows.Scan(&task.ID, &task.Name, &requiresQual, &autoAssign, &weekends); err != nil {
			return nil, err
		}
		task.RequiresQualification = requiresQual != 0
		task.AutoAssign = autoAssign != 0
		task.AssignWeekends = weekends != 0
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
