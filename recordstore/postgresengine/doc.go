// Package postgresengine implements the recordstore.Store interface on a
// Postgres database, for deployments that run beside the database instead
// of going through the hosted record service.
//
// All collections share a single table (default: "records") with one JSONB
// data column, so the engine needs no schema migration when client code
// introduces a new collection. Factory methods are provided for the three
// common database connection types:
//   - NewStoreFromPGXPool for pgxpool.Pool
//   - NewStoreFromSQLDB for database/sql
//   - NewStoreFromSQLX for sqlx.DB
package postgresengine
