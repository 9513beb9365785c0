// Package auth holds the client-side credential state shared by the remote
// procedure client and the record store engines.
//
// The bearer token lives behind the TokenSource interface so the transport
// packages never touch ambient global state. Session expiry is an explicit
// signal: when a 401 forces invalidation, every registered watcher is
// notified synchronously, before the failing call returns, so all in-flight
// callers observe a consistent logged-out state.
package auth
