// Package rpc invokes named server-side procedures over HTTP.
//
// The client attaches bearer auth from an injected auth.TokenSource,
// normalizes success and failure into typed results or errors, and treats
// empty/204 responses as void. Every failure is tagged at construction as
// domain, transport or session (see Error), so callers branch on the tag
// instead of matching error strings.
//
// A 401 response invalidates the token source synchronously, before the
// error propagates, which broadcasts the session-expired signal exactly
// once to every in-flight caller's watchers.
package rpc
