// Package observer keeps independent UI observers consistent with
// server-authoritative state through the realtime event stream.
//
// Every view (dashboard, notifications page, notification bell) owns its own
// in-memory collections of borrow requests and loans. Inbound events are
// folded into those collections by one shared set of reconciliation rules,
// so the merge behavior cannot diverge between call sites:
//
// borrow_requests:
//   - create of a pending request inserts it, unless the id is already
//     present (the local optimistic update may race the realtime echo)
//   - update to a non-pending status removes it from the pending set and
//     records it as resolved, no matter which client caused the transition
//
// loans:
//   - create inserts unless present
//   - update to returned removes
//   - any other update replaces the entry in place (late transitions)
//
// Reconciliation never surfaces errors: a record that cannot be decoded is
// logged and skipped, degrading to "state may be stale". Hydration on Start
// is the recovery path. Cross-observer consistency is eventual and flows
// only through the stream, never through direct calls between views.
package observer
