package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/felixgeelhaar/shiftward/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// WorkerRepository implements domain.WorkerRepository.
type WorkerRepository struct {
	conn database.Connection
}

// NewWorkerRepository creates a worker repository.
func NewWorkerRepository(conn database.Connection) *WorkerRepository {
	return &WorkerRepository{conn: conn}
}

// Save upserts a worker.
func (r *WorkerRepository) Save(ctx context.Context, worker *domain.Worker) error {
	qualifications, err := json.Marshal(worker.Qualifications())
	if err != nil {
		return fmt.Errorf("encode qualifications: %w", err)
	}

	err = r.conn.Exec(ctx, `
		DELETE FROM workers WHERE id = ?`,
		worker.ID().String())
	if err != nil {
		return err
	}
	return r.conn.Exec(ctx, `
		INSERT INTO workers (id, department_id, first_name, last_name, closing_interval, qualifications, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		worker.ID().String(),
		worker.DepartmentID().String(),
		worker.FirstName(),
		worker.LastName(),
		worker.ClosingInterval(),
		string(qualifications),
		worker.CreatedAt().Format(time.RFC3339),
		worker.UpdatedAt().Format(time.RFC3339),
	)
}

// FindByID retrieves a worker by id, nil when absent.
func (r *WorkerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Worker, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, department_id, first_name, last_name, closing_interval, qualifications, created_at, updated_at
		FROM workers WHERE id = ?`,
		id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanWorker(rows)
}

// FindByDepartment retrieves all department workers ordered by id.
func (r *WorkerRepository) FindByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*domain.Worker, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, department_id, first_name, last_name, closing_interval, qualifications, created_at, updated_at
		FROM workers WHERE department_id = ? ORDER BY id`,
		departmentID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []*domain.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

func scanWorker(rows database.Rows) (*domain.Worker, error) {
	var (
		id, departmentID, firstName, lastName string
		closingInterval                       int
		qualificationsJSON                    string
		createdAt, updatedAt                  string
	)
	if err := rows.Scan(&id, &departmentID, &firstName, &lastName, &closingInterval, &qualificationsJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	workerID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid worker id %q: %w", id, err)
	}
	deptID, err := uuid.Parse(departmentID)
	if err != nil {
		return nil, fmt.Errorf("invalid department id %q: %w", departmentID, err)
	}

	var qualifications []string
	if err := json.Unmarshal([]byte(qualificationsJSON), &qualifications); err != nil {
		return nil, fmt.Errorf("decode qualifications: %w", err)
	}

	created, _ := time.Parse(time.RFC3339, createdAt)
	updated, _ := time.Parse(time.RFC3339, updatedAt)

	return domain.RehydrateWorker(workerID, deptID, firstName, lastName, closingInterval, qualifications, created, updated), nil
}
