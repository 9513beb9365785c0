package recordstore

import (
	"errors"
)

var ErrEmptyTableNameSupplied = errors.New("empty table name supplied")
var ErrEmptyRecordIDSupplied = errors.New("empty record id supplied")
var ErrRecordNotFound = errors.New("record not found")
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrBuildingQueryFailed = errors.New("building query failed")
var ErrQueryingRecordsFailed = errors.New("querying records failed")
var ErrScanningDBRowFailed = errors.New("scanning database row failed")
var ErrWritingRecordFailed = errors.New("writing record failed")
