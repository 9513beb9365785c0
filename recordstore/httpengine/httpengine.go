package httpengine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/shelfshare/shelfshare-go/auth"
	"github.com/shelfshare/shelfshare-go/recordstore"
)

const (
	defaultRequestTimeout = 30 * time.Second

	logMsgRequestFailed = "record service request failed"
	logAttrMethod       = "method"
	logAttrTable        = "table"
	logAttrError        = "error"

	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	contentTypeJSON     = "application/json"
	bearerPrefix        = "Bearer "
)

var ErrEmptyBaseURLSupplied = errors.New("empty base url supplied")
var ErrSessionExpired = errors.New("session expired")
var ErrRequestFailed = errors.New("record service request failed")

// Logger interface for request logging, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Store implements recordstore.Store over the hosted record service.
type Store struct {
	baseURL    string
	httpClient *http.Client
	tokens     auth.TokenSource
	logger     Logger
}

// Option defines a functional option for configuring the Store.
type Option func(*Store) error

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *Store) error {
		if httpClient == nil {
			return errors.New("http client must not be nil")
		}

		s.httpClient = httpClient

		return nil
	}
}

// WithLogger sets the logger for the Store.
func WithLogger(logger Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// NewStore creates a Store for the record service at baseURL.
// The token source may be nil for deployments with public collections only.
func NewStore(baseURL string, tokens auth.TokenSource, options ...Option) (*Store, error) {
	if baseURL == "" {
		return nil, ErrEmptyBaseURLSupplied
	}

	store := &Store{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		tokens:     tokens,
	}

	for _, option := range options {
		if err := option(store); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// recordEnvelope is the service-side shape of one record: id and timestamps
// beside the domain fields, all in one flat object.
type recordEnvelope struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

type listEnvelope struct {
	Items []jsoniter.RawMessage `json:"items"`
}

// Get fetches a single record. A 404 maps to recordstore.ErrRecordNotFound.
func (s *Store) Get(ctx context.Context, table string, id string) (recordstore.Record, error) {
	if table == "" {
		return recordstore.Record{}, recordstore.ErrEmptyTableNameSupplied
	}

	if id == "" {
		return recordstore.Record{}, recordstore.ErrEmptyRecordIDSupplied
	}

	body, err := s.do(ctx, http.MethodGet, s.recordURL(table, id), nil)
	if err != nil {
		return recordstore.Record{}, err
	}

	return s.recordFromBody(table, body)
}

// List fetches records matching the filter.
func (s *Store) List(ctx context.Context, table string, filter recordstore.ListFilter) (recordstore.Records, error) {
	if table == "" {
		return nil, recordstore.ErrEmptyTableNameSupplied
	}

	body, err := s.do(ctx, http.MethodGet, s.listURL(table, filter), nil)
	if err != nil {
		return nil, err
	}

	var envelope listEnvelope
	if err = jsoniter.ConfigFastest.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}

	records := make(recordstore.Records, 0, len(envelope.Items))
	for _, item := range envelope.Items {
		record, recordErr := s.recordFromBody(table, item)
		if recordErr != nil {
			return nil, recordErr
		}

		records = append(records, record)
	}

	return records, nil
}

// Create inserts a record and returns the server-authoritative state,
// including assigned id and timestamps.
func (s *Store) Create(ctx context.Context, table string, dataJSON []byte) (recordstore.Record, error) {
	if table == "" {
		return recordstore.Record{}, recordstore.ErrEmptyTableNameSupplied
	}

	body, err := s.do(ctx, http.MethodPost, s.collectionURL(table), dataJSON)
	if err != nil {
		return recordstore.Record{}, err
	}

	return s.recordFromBody(table, body)
}

// Update patches a record and returns the updated state.
func (s *Store) Update(ctx context.Context, table string, id string, dataJSON []byte) (recordstore.Record, error) {
	if table == "" {
		return recordstore.Record{}, recordstore.ErrEmptyTableNameSupplied
	}

	if id == "" {
		return recordstore.Record{}, recordstore.ErrEmptyRecordIDSupplied
	}

	body, err := s.do(ctx, http.MethodPatch, s.recordURL(table, id), dataJSON)
	if err != nil {
		return recordstore.Record{}, err
	}

	return s.recordFromBody(table, body)
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, table string, id string) error {
	if table == "" {
		return recordstore.ErrEmptyTableNameSupplied
	}

	if id == "" {
		return recordstore.ErrEmptyRecordIDSupplied
	}

	_, err := s.do(ctx, http.MethodDelete, s.recordURL(table, id), nil)

	return err
}

func (s *Store) collectionURL(table string) string {
	return s.baseURL + "/collections/" + url.PathEscape(table) + "/records"
}

func (s *Store) recordURL(table string, id string) string {
	return s.collectionURL(table) + "/" + url.PathEscape(id)
}

func (s *Store) listURL(table string, filter recordstore.ListFilter) string {
	query := url.Values{}

	if expression := renderFilterExpression(filter); expression != "" {
		query.Set("filter", expression)
	}

	if sort := renderSortExpression(filter); sort != "" {
		query.Set("sort", sort)
	}

	if filter.PerPage() > 0 {
		query.Set("perPage", strconv.Itoa(filter.PerPage()))
	}

	if len(query) == 0 {
		return s.collectionURL(table)
	}

	return s.collectionURL(table) + "?" + query.Encode()
}

// renderFilterExpression renders predicates into the service's filter
// syntax, e.g. (status='active' || status='late').
func renderFilterExpression(filter recordstore.ListFilter) string {
	predicates := filter.Predicates()
	if len(predicates) == 0 {
		return ""
	}

	operator := " || "
	if filter.AllPredicatesMustMatch() {
		operator = " && "
	}

	clauses := make([]string, 0, len(predicates))
	for _, predicate := range predicates {
		clauses = append(clauses, fmt.Sprintf("%s='%s'", predicate.Key(), escapeFilterValue(predicate.Val())))
	}

	if len(clauses) == 1 {
		return clauses[0]
	}

	return "(" + strings.Join(clauses, operator) + ")"
}

func renderSortExpression(filter recordstore.ListFilter) string {
	sortKeys := filter.SortKeys()
	if len(sortKeys) == 0 {
		return ""
	}

	parts := make([]string, 0, len(sortKeys))
	for _, sortKey := range sortKeys {
		if sortKey.Descending() {
			parts = append(parts, "-"+sortKey.Field())
		} else {
			parts = append(parts, sortKey.Field())
		}
	}

	return strings.Join(parts, ",")
}

func escapeFilterValue(value string) string {
	return strings.ReplaceAll(value, "'", "\\'")
}

func (s *Store) do(ctx context.Context, method string, requestURL string, body []byte) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}

	if body != nil {
		request.Header.Set(headerContentType, contentTypeJSON)
	}

	s.attachBearer(request)

	response, err := s.httpClient.Do(request)
	if err != nil {
		s.logError(logMsgRequestFailed, logAttrMethod, method, logAttrError, err)
		return nil, errors.Join(ErrRequestFailed, err)
	}

	defer func() { _ = response.Body.Close() }()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errors.Join(ErrRequestFailed, err)
	}

	switch {
	case response.StatusCode == http.StatusUnauthorized:
		if s.tokens != nil {
			s.tokens.Invalidate()
		}

		return nil, ErrSessionExpired

	case response.StatusCode == http.StatusNotFound:
		return nil, recordstore.ErrRecordNotFound

	case response.StatusCode < 200 || response.StatusCode > 299:
		return nil, errors.New(extractFailureMessage(responseBody))
	}

	return responseBody, nil
}

// extractFailureMessage surfaces server messages verbatim: a JSON message
// or error field first, then raw body text, then a stable generic string.
func extractFailureMessage(responseBody []byte) string {
	var serverMessage struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	if err := jsoniter.ConfigFastest.Unmarshal(responseBody, &serverMessage); err == nil {
		if serverMessage.Message != "" {
			return serverMessage.Message
		}

		if serverMessage.Error != "" {
			return serverMessage.Error
		}
	}

	if text := strings.TrimSpace(string(responseBody)); text != "" {
		return text
	}

	return ErrRequestFailed.Error()
}

func (s *Store) recordFromBody(table string, body []byte) (recordstore.Record, error) {
	var envelope recordEnvelope
	if err := jsoniter.ConfigFastest.Unmarshal(body, &envelope); err != nil {
		return recordstore.Record{}, errors.Join(ErrRequestFailed, err)
	}

	record, err := recordstore.BuildRecord(table, envelope.ID, body)
	if err != nil {
		return recordstore.Record{}, err
	}

	record.Created = envelope.Created
	record.Updated = envelope.Updated

	return record, nil
}

func (s *Store) attachBearer(request *http.Request) {
	if s.tokens == nil {
		return
	}

	if token, present := s.tokens.Token(); present {
		request.Header.Set(headerAuthorization, bearerPrefix+token)
	}
}

func (s *Store) logError(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}
