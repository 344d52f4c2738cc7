package persistence

import (
	"context"

	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/felixgeelhaar/shiftward/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// StatsRepository implements domain.StatsRepository.
type StatsRepository struct {
	conn database.Connection
}

// NewStatsRepository creates a stats repository.
func NewStatsRepository(conn database.Connection) *StatsRepository {
	return &StatsRepository{conn: conn}
}

// FindByDepartment returns per-worker usage statistics.
func (r *StatsRepository) FindByDepartment(ctx context.Context, departmentID uuid.UUID) (map[string]domain.WorkerStats, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT worker_id, total_secondary, closing_accuracy
		FROM worker_stats WHERE department_id = ?`,
		departmentID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[string]domain.WorkerStats)
	for rows.Next() {
		var (
			workerID string
			total    int
			accuracy float64
		)
		if err := rows.Scan(&workerID, &total, &accuracy); err != nil {
			return nil, err
		}
		stats[workerID] = domain.WorkerStats{
			TotalSecondary:     total,
			ClosingAccuracyPct: accuracy,
		}
	}
	return stats, rows.Err()
}
