package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/shelfshare/shelfshare-go/recordstore"
	"github.com/shelfshare/shelfshare-go/recordstore/postgresengine/internal/adapters"
)

const (
	defaultRecordTableName      = "records"
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgBuildWriteQueryFailed  = "failed to build write query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgDBExecFailed           = "database execution failed"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgRowsAffectedFailed     = "failed to get rows affected count"
	logMsgRecordsListed          = "records listed"
	logMsgRecordWritten          = "record written"
	logMsgRecordDeleted          = "record deleted"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "recordstore operation: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrTable                 = "table"
	logAttrRecordID              = "record_id"
	logAttrRecordCount           = "record_count"
	logAttrDurationMS            = "duration_ms"
	logActionGet                 = "get"
	logActionList                = "list"
	logActionCreate              = "create"
	logActionUpdate              = "update"
	logActionDelete              = "delete"
	colID                        = "id"
	colCollection                = "collection"
	colData                      = "data"
	colCreated                   = "created"
	colUpdated                   = "updated"
	dialectPostgres              = "postgres"
	castJsonb                    = "?::jsonb"
	fieldID                      = "id"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
	queryDuration     = time.Duration
)

// Logger interface for SQL query logging, operational metrics, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Store implements recordstore.Store on a Postgres database.
//
// All collections live in one table with a JSONB data column; the collection
// name of each record is stored in a dedicated column. It leverages a
// database adapter and supports customizable logging and table configuration.
type Store struct {
	db              adapters.DBAdapter
	recordTableName string
	logger          Logger
}

// Option defines a functional option for configuring the Store.
type Option func(*Store) error

// WithTableName sets the table name for the Store.
func WithTableName(tableName string) Option {
	return func(s *Store) error {
		if tableName == "" {
			return recordstore.ErrEmptyTableNameSupplied
		}

		s.recordTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Record counts and durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, recordstore.ErrNilDatabaseConnection
	}

	s := Store{
		db:              adapters.NewPGXAdapter(db),
		recordTableName: defaultRecordTableName,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	return s, nil
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, recordstore.ErrNilDatabaseConnection
	}

	s := Store{
		db:              adapters.NewSQLAdapter(db),
		recordTableName: defaultRecordTableName,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	return s, nil
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, recordstore.ErrNilDatabaseConnection
	}

	s := Store{
		db:              adapters.NewSQLXAdapter(db),
		recordTableName: defaultRecordTableName,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	return s, nil
}

// Get retrieves a single record from its collection.
// Returns recordstore.ErrRecordNotFound if no record matches.
func (s Store) Get(ctx context.Context, table string, id string) (recordstore.Record, error) {
	var empty recordstore.Record

	if table == "" {
		return empty, recordstore.ErrEmptyTableNameSupplied
	}

	if id == "" {
		return empty, recordstore.ErrEmptyRecordIDSupplied
	}

	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.recordTableName).
		Select(colID, colData, colCreated, colUpdated).
		Where(goqu.Ex{colCollection: table, colID: id})

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildSelectQueryFailed, logAttrError, toSQLErr.Error())
		return empty, errors.Join(recordstore.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, _, queryErr := s.executeQuery(ctx, sqlQuery, logActionGet)
	if queryErr != nil {
		return empty, queryErr
	}
	defer s.closeRows(rows)

	records, scanErr := s.scanRecords(rows, table)
	if scanErr != nil {
		return empty, scanErr
	}

	if len(records) == 0 {
		return empty, recordstore.ErrRecordNotFound
	}

	return records[0], nil
}

// List retrieves all records of a collection matching the supplied filter.
func (s Store) List(ctx context.Context, table string, filter recordstore.ListFilter) (recordstore.Records, error) {
	if table == "" {
		return nil, recordstore.ErrEmptyTableNameSupplied
	}

	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.recordTableName).
		Select(colID, colData, colCreated, colUpdated).
		Where(goqu.And(goqu.Ex{colCollection: table}, s.predicateExpressions(filter)))

	for _, sortKey := range filter.SortKeys() {
		selectStmt = selectStmt.OrderAppend(s.orderedExpression(sortKey))
	}

	if filter.PerPage() > 0 {
		selectStmt = selectStmt.Limit(uint(filter.PerPage()))
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildSelectQueryFailed, logAttrError, toSQLErr.Error())
		return nil, errors.Join(recordstore.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, duration, queryErr := s.executeQuery(ctx, sqlQuery, logActionList)
	if queryErr != nil {
		return nil, queryErr
	}
	defer s.closeRows(rows)

	records, scanErr := s.scanRecords(rows, table)
	if scanErr != nil {
		return nil, scanErr
	}

	s.logOperation(
		logMsgRecordsListed,
		logAttrTable, table,
		logAttrRecordCount, len(records),
		logAttrDurationMS, s.durationToMilliseconds(duration))

	return records, nil
}

// Create stores a new record in its collection and returns the stored state
// with the assigned id and timestamps.
//
// The assigned id is also injected into the stored data JSON, so records read
// back through List carry their id inside the data as well.
func (s Store) Create(ctx context.Context, table string, dataJSON []byte) (recordstore.Record, error) {
	var empty recordstore.Record

	if _, buildErr := recordstore.BuildRecord(table, "", dataJSON); buildErr != nil {
		return empty, buildErr
	}

	id := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Microsecond)

	storedJSON, injectErr := injectRecordID(dataJSON, id)
	if injectErr != nil {
		return empty, injectErr
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.recordTableName).
		Rows(goqu.Record{
			colID:         id,
			colCollection: table,
			colData:       goqu.L(castJsonb, string(storedJSON)),
			colCreated:    now,
			colUpdated:    now,
		})

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildWriteQueryFailed, logAttrError, toSQLErr.Error(), logAttrTable, table)
		return empty, errors.Join(recordstore.ErrBuildingQueryFailed, toSQLErr)
	}

	if _, _, execErr := s.executeExec(ctx, sqlQuery, logActionCreate); execErr != nil {
		return empty, execErr
	}

	s.logOperation(logMsgRecordWritten, logAttrTable, table, logAttrRecordID, id)

	return recordstore.Record{
		ID:       id,
		Table:    table,
		DataJSON: storedJSON,
		Created:  now,
		Updated:  now,
	}, nil
}

// Update merges the supplied data JSON into an existing record's data and
// returns the stored state after the merge.
// Returns recordstore.ErrRecordNotFound if no record matches.
func (s Store) Update(ctx context.Context, table string, id string, dataJSON []byte) (recordstore.Record, error) {
	var empty recordstore.Record

	if _, buildErr := recordstore.BuildRecord(table, id, dataJSON); buildErr != nil {
		return empty, buildErr
	}

	if id == "" {
		return empty, recordstore.ErrEmptyRecordIDSupplied
	}

	now := time.Now().UTC().Truncate(time.Microsecond)

	updateStmt := goqu.Dialect(dialectPostgres).
		Update(s.recordTableName).
		Set(goqu.Record{
			colData:    goqu.L(fmt.Sprintf("%s || %s", colData, castJsonb), string(dataJSON)),
			colUpdated: now,
		}).
		Where(goqu.Ex{colCollection: table, colID: id})

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildWriteQueryFailed, logAttrError, toSQLErr.Error(), logAttrTable, table)
		return empty, errors.Join(recordstore.ErrBuildingQueryFailed, toSQLErr)
	}

	rowsAffected, _, execErr := s.executeExec(ctx, sqlQuery, logActionUpdate)
	if execErr != nil {
		return empty, execErr
	}

	if rowsAffected == 0 {
		return empty, recordstore.ErrRecordNotFound
	}

	s.logOperation(logMsgRecordWritten, logAttrTable, table, logAttrRecordID, id)

	return s.Get(ctx, table, id)
}

// Delete removes a record from its collection.
// Returns recordstore.ErrRecordNotFound if no record matches.
func (s Store) Delete(ctx context.Context, table string, id string) error {
	if table == "" {
		return recordstore.ErrEmptyTableNameSupplied
	}

	if id == "" {
		return recordstore.ErrEmptyRecordIDSupplied
	}

	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(s.recordTableName).
		Where(goqu.Ex{colCollection: table, colID: id})

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		s.logError(logMsgBuildWriteQueryFailed, logAttrError, toSQLErr.Error(), logAttrTable, table)
		return errors.Join(recordstore.ErrBuildingQueryFailed, toSQLErr)
	}

	rowsAffected, _, execErr := s.executeExec(ctx, sqlQuery, logActionDelete)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		return recordstore.ErrRecordNotFound
	}

	s.logOperation(logMsgRecordDeleted, logAttrTable, table, logAttrRecordID, id)

	return nil
}

// predicateExpressions converts the filter's field predicates into JSONB
// containment expressions combined with AND or OR.
func (s Store) predicateExpressions(filter recordstore.ListFilter) exp.ExpressionList {
	predicateExpressions := make([]goqu.Expression, 0)

	for _, predicate := range filter.Predicates() {
		predicateExpressions = append(
			predicateExpressions,
			goqu.L(fmt.Sprintf(`%s @> '{"%s": "%s"}'`, colData, predicate.Key(), predicate.Val())),
		)
	}

	if filter.AllPredicatesMustMatch() {
		return goqu.And(predicateExpressions...)
	}

	return goqu.Or(predicateExpressions...)
}

// orderedExpression maps a sort key to the timestamp columns or to a JSONB
// text extraction of the data field.
func (s Store) orderedExpression(sortKey recordstore.SortKey) exp.OrderedExpression {
	if sortKey.Field() == colCreated || sortKey.Field() == colUpdated {
		if sortKey.Descending() {
			return goqu.I(sortKey.Field()).Desc()
		}

		return goqu.I(sortKey.Field()).Asc()
	}

	fieldExpression := goqu.L(fmt.Sprintf("%s->>'%s'", colData, sortKey.Field()))

	if sortKey.Descending() {
		return fieldExpression.Desc()
	}

	return fieldExpression.Asc()
}

// executeQuery executes the SQL query and returns rows with timing information.
func (s Store) executeQuery(ctx context.Context, sqlQuery string, action string) (
	adapters.DBRows,
	time.Duration,
	error,
) {

	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(sqlQuery, action, duration)

	if queryErr != nil {
		s.logError(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)

		return nil, duration, errors.Join(recordstore.ErrQueryingRecordsFailed, queryErr)
	}

	return rows, duration, nil
}

// executeExec executes the SQL statement and returns rows affected and duration.
func (s Store) executeExec(ctx context.Context, sqlQuery string, action string) (
	rowsAffectedInt64,
	queryDuration,
	error,
) {

	start := time.Now()
	result, execErr := s.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(sqlQuery, action, duration)

	if execErr != nil {
		s.logError(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)

		return 0, duration, errors.Join(recordstore.ErrWritingRecordFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		s.logError(logMsgRowsAffectedFailed, logAttrError, rowsAffectedErr.Error())

		return 0, duration, errors.Join(recordstore.ErrWritingRecordFailed, rowsAffectedErr)
	}

	return rowsAffected, duration, nil
}

// scanRecords processes database rows and converts them to records.
func (s Store) scanRecords(rows adapters.DBRows, table string) (recordstore.Records, error) {
	records := make(recordstore.Records, 0)

	var (
		id       string
		dataJSON []byte
		created  time.Time
		updated  time.Time
	)

	for rows.Next() {
		rowScanErr := rows.Scan(&id, &dataJSON, &created, &updated)
		if rowScanErr != nil {
			s.logError(logMsgScanRowFailed, logAttrError, rowScanErr.Error())

			return nil, errors.Join(recordstore.ErrScanningDBRowFailed, rowScanErr)
		}

		record, buildErr := recordstore.BuildRecord(table, id, dataJSON)
		if buildErr != nil {
			s.logError(logMsgScanRowFailed, logAttrError, buildErr.Error(), logAttrRecordID, id)

			return nil, errors.Join(recordstore.ErrScanningDBRowFailed, buildErr)
		}

		record.Created = created
		record.Updated = updated
		records = append(records, record)
	}

	return records, nil
}

// closeRows safely closes database rows and logs any errors.
func (s Store) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if s.logger != nil {
			s.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// injectRecordID merges the assigned id into the record's data JSON.
func injectRecordID(dataJSON []byte, id string) ([]byte, error) {
	data := make(map[string]any)

	if err := jsoniter.ConfigFastest.Unmarshal(dataJSON, &data); err != nil {
		return nil, errors.Join(recordstore.ErrInvalidRecordDataJSON, err)
	}

	data[fieldID] = id

	storedJSON, err := jsoniter.ConfigFastest.Marshal(data)
	if err != nil {
		return nil, errors.Join(recordstore.ErrInvalidRecordDataJSON, err)
	}

	return storedJSON, nil
}

// logQueryWithDuration logs SQL queries with execution time at debug level if the logger is configured.
func (s Store) logQueryWithDuration(
	sqlQuery string,
	action string,
	duration time.Duration,
) {

	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, s.durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (s Store) logOperation(action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}
}

func (s Store) logError(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (s Store) durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
