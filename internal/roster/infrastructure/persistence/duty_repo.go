package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/felixgeelhaar/shiftward/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// DutyRepository implements domain.DutyRepository over the primary roster
// and closing history tables.
type DutyRepository struct {
	conn database.Connection
}

// NewDutyRepository creates a duty repository.
func NewDutyRepository(conn database.Connection) *DutyRepository {
	return &DutyRepository{conn: conn}
}

// Save upserts a primary duty block.
func (r *DutyRepository) Save(ctx context.Context, id uuid.UUID, departmentID uuid.UUID, duty domain.PrimaryDuty) error {
	err := r.conn.Exec(ctx, `
		DELETE FROM primary_duties WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	return r.conn.Exec(ctx, `
		INSERT INTO primary_duties (id, department_id, worker_id, start_date, end_date)
		VALUES (?, ?, ?, ?, ?)`,
		id.String(),
		departmentID.String(),
		duty.WorkerID,
		duty.Start.Format(isoDate),
		duty.End.Format(isoDate),
	)
}

// RecordClosing stores an actual closing Friday for a worker.
func (r *DutyRepository) RecordClosing(ctx context.Context, departmentID uuid.UUID, workerID string, friday time.Time) error {
	err := r.conn.Exec(ctx, `
		DELETE FROM closings WHERE department_id = ? AND worker_id = ? AND friday = ?`,
		departmentID.String(), workerID, friday.Format(isoDate))
	if err != nil {
		return err
	}
	return r.conn.Exec(ctx, `
		INSERT INTO closings (department_id, worker_id, friday) VALUES (?, ?, ?)`,
		departmentID.String(), workerID, friday.Format(isoDate))
}

// FindByDepartmentAndRange returns duties overlapping the range.
func (r *DutyRepository) FindByDepartmentAndRange(ctx context.Context, departmentID uuid.UUID, rng domain.DateRange) ([]domain.PrimaryDuty, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT worker_id, start_date, end_date
		FROM primary_duties
		WHERE department_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY worker_id, start_date`,
		departmentID.String(),
		rng.End.Format(isoDate),
		rng.Start.Format(isoDate))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var duties []domain.PrimaryDuty
	for rows.Next() {
		var workerID, start, end string
		if err := rows.Scan(&workerID, &start, &end); err != nil {
			return nil, err
		}
		startDay, err := time.ParseInLocation(isoDate, start, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid duty start %q: %w", start, err)
		}
		endDay, err := time.ParseInLocation(isoDate, end, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid duty end %q: %w", end, err)
		}
		duties = append(duties, domain.PrimaryDuty{WorkerID: workerID, Start: startDay, End: endDay})
	}
	return duties, rows.Err()
}

// LastClosingFriday returns the worker's most recent closing strictly
// before the given day, or the zero time when the worker never closed.
func (r *DutyRepository) LastClosingFriday(ctx context.Context, workerID string, before time.Time) (time.Time, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT friday FROM closings
		WHERE worker_id = ? AND friday < ?
		ORDER BY friday DESC`,
		workerID, before.Format(isoDate))
	if err != nil {
		return time.Time{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		return time.Time{}, rows.Err()
	}
	var friday string
	if err := rows.Scan(&friday); err != nil {
		return time.Time{}, err
	}
	day, err := time.ParseInLocation(isoDate, friday, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid closing date %q: %w", friday, err)
	}
	return day, nil
}
