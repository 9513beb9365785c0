package recordstore

import (
	"encoding/json"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var ErrInvalidRecordDataJSON = errors.New("record data json is not valid")

// Records is an alias type for a slice of Record.
type Records = []Record

// Record is a DTO (data transfer object) used by the record store to create
// records and query them back.
//
// It is built on scalars to be completely agnostic of the domain types in
// the client code. While its properties are exported, it should only be
// constructed with the supplied factory methods:
//   - BuildRecord
//   - RecordFrom
type Record struct {
	ID       string
	Table    string
	DataJSON []byte
	Created  time.Time
	Updated  time.Time
}

// BuildRecord is a factory method for Record.
//
// It populates the Record with the given scalar input.
// Returns an error if dataJSON is not valid JSON.
func BuildRecord(table string, id string, dataJSON []byte) (Record, error) {
	if table == "" {
		return Record{}, ErrEmptyTableNameSupplied
	}

	if !json.Valid(dataJSON) {
		return Record{}, ErrInvalidRecordDataJSON
	}

	return Record{
		ID:       id,
		Table:    table,
		DataJSON: dataJSON,
	}, nil
}

// RecordFrom is a factory method for Record that marshals an arbitrary
// domain value into the record's data JSON.
func RecordFrom(table string, id string, data any) (Record, error) {
	dataJSON, err := jsoniter.ConfigFastest.Marshal(data)
	if err != nil {
		return Record{}, errors.Join(ErrInvalidRecordDataJSON, err)
	}

	return BuildRecord(table, id, dataJSON)
}

// Decode unmarshals the record's data JSON into out.
func (r Record) Decode(out any) error {
	return jsoniter.ConfigFastest.Unmarshal(r.DataJSON, out)
}
