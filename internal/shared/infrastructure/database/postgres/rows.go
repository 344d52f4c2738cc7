package postgres

import "github.com/jackc/pgx/v5"

// pgxRows adapts pgx.Rows to database.Rows.
type pgxRows struct {
	rows pgx.Rows
}

func (r *pgxRows) Next() bool             { return r.rows.Next() }
func (r *pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *pgxRows) Err() error             { return r.rows.Err() }

func (r *pgxRows) Close() error {
	r.rows.Close()
	return nil
}
