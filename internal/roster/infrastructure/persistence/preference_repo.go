package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/felixgeelhaar/shiftward/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// PreferenceRepository implements domain.PreferenceRepository.
type PreferenceRepository struct {
	conn database.Connection
}

// NewPreferenceRepository creates a preference repository.
func NewPreferenceRepository(conn database.Connection) *PreferenceRepository {
	return &PreferenceRepository{conn: conn}
}

// Save upserts a preference.
func (r *PreferenceRepository) Save(ctx context.Context, departmentID uuid.UUID, pref domain.Preference) error {
	day, err := domain.ParseDateKey(pref.Date)
	if err != nil {
		return err
	}
	err = r.conn.Exec(ctx, `
		DELETE FROM preferences WHERE department_id = ? AND worker_id = ? AND pref_date = ? AND task_id = ?`,
		departmentID.String(), pref.WorkerID, day.Format(isoDate), pref.TaskID)
	if err != nil {
		return err
	}
	return r.conn.Exec(ctx, `
		INSERT INTO preferences (department_id, worker_id, pref_date, task_id, status)
		VALUES (?, ?, ?, ?, ?)`,
		departmentID.String(), pref.WorkerID, day.Format(isoDate), pref.TaskID, string(pref.Status))
}

// FindByDepartmentAndRange lists preferences dated inside the range.
func (r *PreferenceRepository) FindByDepartmentAndRange(ctx context.Context, departmentID uuid.UUID, rng domain.DateRange) ([]domain.Preference, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT worker_id, pref_date, task_id, status
		FROM preferences
		WHERE department_id = ? AND pref_date >= ? AND pref_date <= ?
		ORDER BY worker_id, pref_date, task_id`,
		departmentID.String(),
		rng.Start.Format(isoDate),
		rng.End.Format(isoDate))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []domain.Preference
	for rows.Next() {
		var workerID, prefDate, taskID, status string
		if err := rows.Scan(&workerID, &prefDate, &taskID, &status); err != nil {
			return nil, err
		}
		day, err := time.ParseInLocation(isoDate, prefDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid preference date %q: %w", prefDate, err)
		}
		prefs = append(prefs, domain.Preference{
			WorkerID: workerID,
			Date:     domain.NewDateKey(day),
			TaskID:   taskID,
			Status:   domain.PreferenceStatus(status),
		})
	}
	return prefs, rows.Err()
}
