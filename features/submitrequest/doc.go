// Package submitrequest submits a borrow request through two transport
// paths with a deterministic fallback policy.
//
// The remote procedure path runs first: it creates the request atomically
// on the server (availability check, borrower upsert, request insert in one
// transaction). When that path fails with a transport-level error - the
// procedure endpoint is unreachable or not enabled for this deployment -
// the handler falls back to direct record CRUD. A domain-level rejection
// never falls back: the server already made an authoritative decision and
// repeating it through CRUD would be semantically wrong.
package submitrequest
