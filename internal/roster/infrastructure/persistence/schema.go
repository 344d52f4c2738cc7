// Package persistence implements the roster repositories over the shared
// database abstraction. One SQL dialect serves both PostgreSQL and SQLite:
// text primary keys, ISO dates for range scans, integer booleans.
package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/shiftward/internal/shared/infrastructure/database"
)

// isoDate is the storage layout for calendar dates; lexicographic order
// matches chronological order, so range scans need no date functions.
const isoDate = "2006-01-02"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS workers (
		id TEXT PRIMARY KEY,
		department_id TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		closing_interval INTEGER NOT NULL DEFAULT 0,
		qualifications TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workers_department ON workers(department_id)`,
	`CREATE TABLE IF NOT EXISTS secondary_tasks (
		department_id TEXT NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		requires_qualification INTEGER NOT NULL DEFAULT 0,
		auto_assign INTEGER NOT NULL DEFAULT 1,
		assign_weekends INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (department_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS primary_duties (
		id TEXT PRIMARY KEY,
		department_id TEXT NOT NULL,
		worker_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_duties_department_range ON primary_duties(department_id, start_date, end_date)`,
	`CREATE TABLE IF NOT EXISTS closings (
		department_id TEXT NOT NULL,
		worker_id TEXT NOT NULL,
		friday TEXT NOT NULL,
		PRIMARY KEY (department_id, worker_id, friday)
	)`,
	`CREATE TABLE IF NOT EXISTS preferences (
		department_id TEXT NOT NULL,
		worker_id TEXT NOT NULL,
		pref_date TEXT NOT NULL,
		task_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		PRIMARY KEY (department_id, worker_id, pref_date, task_id)
	)`,
	`CREATE TABLE IF NOT EXISTS assignments (
		department_id TEXT NOT NULL,
		assign_date TEXT NOT NULL,
		task_id TEXT NOT NULL,
		worker_id TEXT NOT NULL,
		PRIMARY KEY (department_id, assign_date, task_id)
	)`,
	`CREATE TABLE IF NOT EXISTS worker_stats (
		department_id TEXT NOT NULL,
		worker_id TEXT NOT NULL,
		total_secondary INTEGER NOT NULL DEFAULT 0,
		closing_accuracy REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (department_id, worker_id)
	)`,
}

// EnsureSchema creates the roster tables when missing. It is idempotent
// and safe to run on every startup.
func EnsureSchema(ctx context.Context, conn database.Connection) error {
	for _, stmt := range schemaStatements {
		if err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
