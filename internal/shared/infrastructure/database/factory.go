package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds database configuration.
type Config struct {
	// Driver selects the database driver. Empty or "auto" detects it
	// from the URL.
	Driver Driver

	// URL is the PostgreSQL connection string.
	URL string

	// SQLitePath is the SQLite database file path, used with
	// DriverSQLite. Defaults to ~/.shiftward/roster.db.
	SQLitePath string

	// MaxConns limits the connection pool (PostgreSQL only).
	MaxConns int
}

// NewConnection creates a database connection based on configuration.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" || driver == "auto" {
		driver = DetectDriver(cfg.URL)
	}

	switch driver {
	case DriverPostgres:
		if newPostgresConnection == nil {
			return nil, fmt.Errorf("postgres driver not linked into this build")
		}
		return newPostgresConnection(ctx, cfg)
	case DriverSQLite:
		if newSQLiteConnection == nil {
			return nil, fmt.Errorf("sqlite driver not linked into this build")
		}
		return newSQLiteConnection(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// DefaultSQLitePath returns the default SQLite database path.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".shiftward", "roster.db")
}

// EnsureDirectory creates the parent directory for a file path if missing.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// Driver factories register themselves from their packages so that a build
// only links the drivers it imports.
var (
	newPostgresConnection func(ctx context.Context, cfg Config) (Connection, error)
	newSQLiteConnection   func(ctx context.Context, cfg Config) (Connection, error)
)

// RegisterPostgresDriver registers the PostgreSQL connection factory.
func RegisterPostgresDriver(fn func(ctx context.Context, cfg Config) (Connection, error)) {
	newPostgresConnection = fn
}

// RegisterSQLiteDriver registers the SQLite connection factory.
func RegisterSQLiteDriver(fn func(ctx context.Context, cfg Config) (Connection, error)) {
	newSQLiteConnection = fn
}
