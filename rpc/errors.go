package rpc

import (
	"errors"
	"fmt"
)

// ErrorKind tags an Error with the failure class it was constructed for.
type ErrorKind int

const (
	// KindTransport marks failures of the transport itself: network errors,
	// malformed responses, missing endpoints. The server made no decision.
	KindTransport ErrorKind = iota

	// KindDomain marks authoritative server rejections carrying a
	// business-level message ("Item is not available for borrowing").
	KindDomain

	// KindSession marks 401 responses after local credentials were cleared.
	KindSession
)

// SessionExpiredMessage is the user-facing message for KindSession errors.
const SessionExpiredMessage = "Your session has expired. Please sign in again."

// Error is the typed failure of a remote procedure call.
type Error struct {
	Kind       ErrorKind
	Procedure  string
	StatusCode int
	Message    string
	cause      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// genericFailureMessage is the stable fallback when a failed call carries
// no usable body.
func genericFailureMessage(procedure string) string {
	return fmt.Sprintf("RPC %s failed", procedure)
}

func newTransportError(procedure string, statusCode int, message string, cause error) *Error {
	if message == "" {
		message = genericFailureMessage(procedure)
	}

	return &Error{
		Kind:       KindTransport,
		Procedure:  procedure,
		StatusCode: statusCode,
		Message:    message,
		cause:      cause,
	}
}

func newDomainError(procedure string, statusCode int, message string) *Error {
	return &Error{
		Kind:       KindDomain,
		Procedure:  procedure,
		StatusCode: statusCode,
		Message:    message,
	}
}

func newSessionError(procedure string) *Error {
	return &Error{
		Kind:       KindSession,
		Procedure:  procedure,
		StatusCode: 401,
		Message:    SessionExpiredMessage,
	}
}

// IsDomainError reports whether err is an rpc.Error tagged KindDomain.
func IsDomainError(err error) bool {
	return hasKind(err, KindDomain)
}

// IsTransportError reports whether err is an rpc.Error tagged KindTransport.
func IsTransportError(err error) bool {
	return hasKind(err, KindTransport)
}

// IsSessionError reports whether err is an rpc.Error tagged KindSession.
func IsSessionError(err error) bool {
	return hasKind(err, KindSession)
}

func hasKind(err error, kind ErrorKind) bool {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr.Kind == kind
	}

	return false
}
