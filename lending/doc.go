// Package lending contains the domain types of the borrow lifecycle:
// items offered by a library, anonymous borrowers identified by phone
// number, borrow requests, loans and the reminders attached to a loan's
// return timeline.
//
// The types are plain DTOs with JSON tags matching the wire names used
// by the record service. Status values are server-authoritative; this
// package only declares them so client code can react to transitions.
package lending
