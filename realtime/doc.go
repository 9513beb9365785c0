// Package realtime defines the server-pushed change stream the observers
// reconcile against: create/update/delete events for subscribed tables.
//
// The actual transport is an external collaborator; this package holds the
// subscriber contract plus an in-process Hub used by tests and by
// deployments that embed the record backend. Subscriptions are long-lived
// and must be torn down with Unsubscribe when the observing view goes away,
// otherwise the callback keeps mutating abandoned state.
package realtime
