// Package adapters wraps the supported database drivers (pgx pool, sqlx,
// database/sql) behind one small DBAdapter interface so the record store
// engine stays driver-agnostic.
package adapters
