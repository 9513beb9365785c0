package adapters

import (
	"database/sql"
)

// stdRows wraps sql.Rows for both database/sql and sqlx based adapters.
type stdRows struct {
	rows *sql.Rows
}

func (r *stdRows) Next() bool {
	return r.rows.Next()
}

func (r *stdRows) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

func (r *stdRows) Close() error {
	return r.rows.Close()
}

// stdResult wraps sql.Result for both database/sql and sqlx based adapters.
type stdResult struct {
	result sql.Result
}

func (r *stdResult) RowsAffected() (int64, error) {
	return r.result.RowsAffected()
}
