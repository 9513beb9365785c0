package storedouble

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"

	"github.com/shelfshare/shelfshare-go/recordstore"
)

// FakeStore is an in-memory recordstore.Store.
//
// It applies list filters against the record data JSON the same way the real
// engines do: field predicates with AND/OR combination, sort keys and a page
// size. Write operations merge patches into existing data like the record
// service does. Errors can be injected per operation and all calls are
// counted.
type FakeStore struct {
	mu     sync.Mutex
	tables map[string]map[string]recordstore.Record

	getCalls    int
	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int

	getErr    error
	listErr   error
	createErr error
	updateErr error
	deleteErr error
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{tables: make(map[string]map[string]recordstore.Record)}
}

// Seed stores a record built from the given domain value, failing the test
// on marshaling errors. The value must carry its id in an "id" JSON field.
func (f *FakeStore) Seed(t testing.TB, table string, id string, data any) recordstore.Record {
	record, err := recordstore.RecordFrom(table, id, data)
	assert.NoError(t, err, "error in arranging test data")

	f.mu.Lock()
	defer f.mu.Unlock()
	f.put(record)

	return record
}

// FailGetWith makes every subsequent Get return the given error.
func (f *FakeStore) FailGetWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getErr = err
}

// FailListWith makes every subsequent List return the given error.
func (f *FakeStore) FailListWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
}

// FailCreateWith makes every subsequent Create return the given error.
func (f *FakeStore) FailCreateWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createErr = err
}

// FailUpdateWith makes every subsequent Update return the given error.
func (f *FakeStore) FailUpdateWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateErr = err
}

// FailDeleteWith makes every subsequent Delete return the given error.
func (f *FakeStore) FailDeleteWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteErr = err
}

func (f *FakeStore) GetCallCount() int    { f.mu.Lock(); defer f.mu.Unlock(); return f.getCalls }
func (f *FakeStore) ListCallCount() int   { f.mu.Lock(); defer f.mu.Unlock(); return f.listCalls }
func (f *FakeStore) CreateCallCount() int { f.mu.Lock(); defer f.mu.Unlock(); return f.createCalls }
func (f *FakeStore) UpdateCallCount() int { f.mu.Lock(); defer f.mu.Unlock(); return f.updateCalls }
func (f *FakeStore) DeleteCallCount() int { f.mu.Lock(); defer f.mu.Unlock(); return f.deleteCalls }

// WriteCallCount returns the total number of Create, Update and Delete calls.
func (f *FakeStore) WriteCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.createCalls + f.updateCalls + f.deleteCalls
}

// RecordCount returns the number of records stored in a table.
func (f *FakeStore) RecordCount(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.tables[table])
}

// MustGet returns a stored record, failing the test if it does not exist.
func (f *FakeStore) MustGet(t testing.TB, table string, id string) recordstore.Record {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, exists := f.tables[table][id]
	assert.True(t, exists, "expected record %s to exist in table %s", id, table)

	return record
}

// Get implements recordstore.Store.
func (f *FakeStore) Get(_ context.Context, table string, id string) (recordstore.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++

	if f.getErr != nil {
		return recordstore.Record{}, f.getErr
	}

	record, exists := f.tables[table][id]
	if !exists {
		return recordstore.Record{}, recordstore.ErrRecordNotFound
	}

	return record, nil
}

// List implements recordstore.Store.
func (f *FakeStore) List(_ context.Context, table string, filter recordstore.ListFilter) (recordstore.Records, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++

	if f.listErr != nil {
		return nil, f.listErr
	}

	records := make(recordstore.Records, 0)

	for _, record := range f.tables[table] {
		if matchesFilter(record, filter) {
			records = append(records, record)
		}
	}

	sortRecords(records, filter.SortKeys())

	if filter.PerPage() > 0 && len(records) > filter.PerPage() {
		records = records[:filter.PerPage()]
	}

	return records, nil
}

// Create implements recordstore.Store.
func (f *FakeStore) Create(_ context.Context, table string, dataJSON []byte) (recordstore.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++

	if f.createErr != nil {
		return recordstore.Record{}, f.createErr
	}

	data, decodeErr := decodeData(dataJSON)
	if decodeErr != nil {
		return recordstore.Record{}, decodeErr
	}

	id := uuid.NewString()
	data["id"] = id

	record, buildErr := buildStoredRecord(table, id, data)
	if buildErr != nil {
		return recordstore.Record{}, buildErr
	}

	f.put(record)

	return record, nil
}

// Update implements recordstore.Store.
func (f *FakeStore) Update(_ context.Context, table string, id string, dataJSON []byte) (recordstore.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++

	if f.updateErr != nil {
		return recordstore.Record{}, f.updateErr
	}

	existing, exists := f.tables[table][id]
	if !exists {
		return recordstore.Record{}, recordstore.ErrRecordNotFound
	}

	data, decodeErr := decodeData(existing.DataJSON)
	if decodeErr != nil {
		return recordstore.Record{}, decodeErr
	}

	patch, decodePatchErr := decodeData(dataJSON)
	if decodePatchErr != nil {
		return recordstore.Record{}, decodePatchErr
	}

	for key, val := range patch {
		data[key] = val
	}

	record, buildErr := buildStoredRecord(table, id, data)
	if buildErr != nil {
		return recordstore.Record{}, buildErr
	}

	f.put(record)

	return record, nil
}

// Delete implements recordstore.Store.
func (f *FakeStore) Delete(_ context.Context, table string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++

	if f.deleteErr != nil {
		return f.deleteErr
	}

	if _, exists := f.tables[table][id]; !exists {
		return recordstore.ErrRecordNotFound
	}

	delete(f.tables[table], id)

	return nil
}

func (f *FakeStore) put(record recordstore.Record) {
	if f.tables[record.Table] == nil {
		f.tables[record.Table] = make(map[string]recordstore.Record)
	}

	f.tables[record.Table][record.ID] = record
}

func decodeData(dataJSON []byte) (map[string]any, error) {
	data := make(map[string]any)
	if err := jsoniter.ConfigFastest.Unmarshal(dataJSON, &data); err != nil {
		return nil, err
	}

	return data, nil
}

func buildStoredRecord(table string, id string, data map[string]any) (recordstore.Record, error) {
	dataJSON, marshalErr := jsoniter.ConfigFastest.Marshal(data)
	if marshalErr != nil {
		return recordstore.Record{}, marshalErr
	}

	return recordstore.BuildRecord(table, id, dataJSON)
}

func matchesFilter(record recordstore.Record, filter recordstore.ListFilter) bool {
	predicates := filter.Predicates()
	if len(predicates) == 0 {
		return true
	}

	data, err := decodeData(record.DataJSON)
	if err != nil {
		return false
	}

	matched := 0

	for _, predicate := range predicates {
		if fieldAsString(data, predicate.Key()) == predicate.Val() {
			matched++
		}
	}

	if filter.AllPredicatesMustMatch() {
		return matched == len(predicates)
	}

	return matched > 0
}

func sortRecords(records recordstore.Records, sortKeys []recordstore.SortKey) {
	if len(sortKeys) == 0 {
		sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
		return
	}

	sort.Slice(records, func(i, j int) bool {
		left, _ := decodeData(records[i].DataJSON)
		right, _ := decodeData(records[j].DataJSON)

		for _, sortKey := range sortKeys {
			cmp := strings.Compare(fieldAsString(left, sortKey.Field()), fieldAsString(right, sortKey.Field()))
			if cmp == 0 {
				continue
			}

			if sortKey.Descending() {
				return cmp > 0
			}

			return cmp < 0
		}

		return records[i].ID < records[j].ID
	})
}

func fieldAsString(data map[string]any, field string) string {
	val, exists := data[field]
	if !exists {
		return ""
	}

	if s, ok := val.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", val)
}
