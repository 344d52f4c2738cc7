// Package database provides a driver-agnostic connection abstraction so
// repositories can run unchanged on PostgreSQL (pgx) and SQLite (modernc).
package database

import (
	"context"
	"database/sql"
	"strings"
)

// Driver identifies a supported database driver.
type Driver string

const (
	// DriverPostgres is the pgx-backed PostgreSQL driver.
	DriverPostgres Driver = "postgres"
	// DriverSQLite is the pure-Go SQLite driver.
	DriverSQLite Driver = "sqlite"
)

// DetectDriver infers the driver from a connection URL.
func DetectDriver(url string) Driver {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// Row is a single result row.
type Row interface {
	Scan(dest ...any) error
}

// Rows is an iterable result set.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Connection is the driver-agnostic handle repositories work against.
// Queries use `?` placeholders; each driver rebinds them as needed.
type Connection interface {
	Driver() Driver
	Exec(ctx context.Context, query string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Ping(ctx context.Context) error
	Close() error
}

// sqlRows adapts *sql.Rows to the Rows interface.
type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Next() bool             { return r.rows.Next() }
func (r *sqlRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *sqlRows) Close() error           { return r.rows.Close() }
func (r *sqlRows) Err() error             { return r.rows.Err() }

// WrapSQLRows wraps database/sql rows for drivers built on database/sql.
func WrapSQLRows(rows *sql.Rows) Rows {
	return &sqlRows{rows: rows}
}
