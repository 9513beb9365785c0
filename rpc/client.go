package rpc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/shelfshare/shelfshare-go/auth"
)

const (
	defaultCallTimeout = 30 * time.Second

	logMsgCallCompleted     = "rpc call completed"
	logMsgCallFailed        = "rpc call failed"
	logMsgSessionExpired    = "rpc call unauthorized, session invalidated"
	logAttrProcedure        = "procedure"
	logAttrStatusCode       = "status_code"
	logAttrError            = "error"
	headerAuthorization     = "Authorization"
	headerContentType       = "Content-Type"
	contentTypeJSON         = "application/json"
	bearerPrefix            = "Bearer "
)

var ErrEmptyBaseURLSupplied = errors.New("empty base url supplied")
var ErrEmptyProcedureNameSupplied = errors.New("empty procedure name supplied")

// Logger interface for call logging, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Client invokes named server-side procedures over HTTP with JSON bodies.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     auth.TokenSource
	logger     Logger
}

// Option defines a functional option for configuring the Client.
type Option func(*Client) error

// WithHTTPClient sets a custom http.Client, e.g. with instrumented transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient == nil {
			return errors.New("http client must not be nil")
		}

		c.httpClient = httpClient

		return nil
	}
}

// WithLogger sets the logger for the Client.
//
// Debug level: completed calls with status codes (development use)
// Warn level: session invalidation after a 401
// Error level: transport failures.
func WithLogger(logger Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// NewClient creates a Client for the procedure endpoint at baseURL.
// The token source may be nil for deployments that call public procedures only.
func NewClient(baseURL string, tokens auth.TokenSource, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrEmptyBaseURLSupplied
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultCallTimeout},
		tokens:     tokens,
	}

	for _, option := range options {
		if err := option(client); err != nil {
			return nil, err
		}
	}

	return client, nil
}

// Call invokes the named procedure with params as the JSON body and decodes
// the response into out. A nil out discards the response body; HTTP 204 and
// non-JSON responses resolve as void regardless of out.
//
// Failures are returned as *Error tagged with the failure class:
//   - KindSession for 401, after credentials were invalidated
//   - KindDomain for non-2xx responses carrying a server message
//   - KindTransport for everything else
func (c *Client) Call(ctx context.Context, procedure string, params any, out any) error {
	if procedure == "" {
		return ErrEmptyProcedureNameSupplied
	}

	body, err := c.encodeParams(procedure, params)
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rpc/"+procedure, bytes.NewReader(body))
	if err != nil {
		return newTransportError(procedure, 0, "", err)
	}

	request.Header.Set(headerContentType, contentTypeJSON)
	c.attachBearer(request)

	response, err := c.httpClient.Do(request)
	if err != nil {
		c.logError(logMsgCallFailed, logAttrProcedure, procedure, logAttrError, err)
		return newTransportError(procedure, 0, "", err)
	}

	defer func() { _ = response.Body.Close() }()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return newTransportError(procedure, response.StatusCode, "", err)
	}

	if response.StatusCode == http.StatusUnauthorized {
		return c.failUnauthorized(procedure)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return c.failWithResponseMessage(procedure, response.StatusCode, responseBody)
	}

	c.logDebug(logMsgCallCompleted, logAttrProcedure, procedure, logAttrStatusCode, response.StatusCode)

	return c.decodeResult(procedure, response, responseBody, out)
}

func (c *Client) encodeParams(procedure string, params any) ([]byte, error) {
	if params == nil {
		return []byte("{}"), nil
	}

	body, err := jsoniter.ConfigFastest.Marshal(params)
	if err != nil {
		return nil, newTransportError(procedure, 0, "", err)
	}

	return body, nil
}

func (c *Client) attachBearer(request *http.Request) {
	if c.tokens == nil {
		return
	}

	if token, present := c.tokens.Token(); present {
		request.Header.Set(headerAuthorization, bearerPrefix+token)
	}
}

// failUnauthorized clears local credentials and broadcasts the
// session-expired signal before the error propagates, so every in-flight
// caller observes a consistent logged-out state.
func (c *Client) failUnauthorized(procedure string) error {
	if c.tokens != nil {
		c.tokens.Invalidate()
	}

	c.logWarn(logMsgSessionExpired, logAttrProcedure, procedure)

	return newSessionError(procedure)
}

// failWithResponseMessage applies the three-tier message extraction:
// a JSON `message`/`error` field, then raw body text, then the generic
// "RPC <name> failed" fallback. Any server-provided message, JSON or plain
// text, marks the failure as a domain decision; only an empty body falls
// back to a transport error.
func (c *Client) failWithResponseMessage(procedure string, statusCode int, responseBody []byte) error {
	var serverMessage struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	if err := jsoniter.ConfigFastest.Unmarshal(responseBody, &serverMessage); err == nil {
		if serverMessage.Message != "" {
			return newDomainError(procedure, statusCode, serverMessage.Message)
		}

		if serverMessage.Error != "" {
			return newDomainError(procedure, statusCode, serverMessage.Error)
		}
	}

	if bodyText := strings.TrimSpace(string(responseBody)); bodyText != "" {
		return newDomainError(procedure, statusCode, bodyText)
	}

	return newTransportError(procedure, statusCode, "", nil)
}

func (c *Client) decodeResult(procedure string, response *http.Response, responseBody []byte, out any) error {
	if out == nil || response.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(responseBody)) == 0 {
		return nil
	}

	if !c.hasJSONContentType(response) {
		return nil
	}

	if err := jsoniter.ConfigFastest.Unmarshal(responseBody, out); err != nil {
		return newTransportError(procedure, response.StatusCode, "", err)
	}

	return nil
}

func (c *Client) hasJSONContentType(response *http.Response) bool {
	mediaType, _, err := mime.ParseMediaType(response.Header.Get(headerContentType))
	if err != nil {
		return false
	}

	return mediaType == contentTypeJSON
}

func (c *Client) logDebug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Client) logWarn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

func (c *Client) logError(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Error(msg, args...)
	}
}
