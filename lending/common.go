package lending

import (
	"time"
)

// Instead of implementing full value objects, alias types and helper methods are used here ...

// ItemIDString represents an item identifier.
type ItemIDString = string

// BorrowerIDString represents a borrower identifier.
type BorrowerIDString = string

// RequestIDString represents a borrow request identifier.
type RequestIDString = string

// LoanIDString represents a loan identifier.
type LoanIDString = string

// PhoneString represents a borrower's phone number, the natural deduplication key.
type PhoneString = string

// ToTimestamp converts a time to a wire timestamp with UTC normalization and microsecond precision.
func ToTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// Table names of the collections the lifecycle works with.
const (
	TableItems          = "items"
	TableBorrowers      = "borrowers"
	TableBorrowRequests = "borrow_requests"
	TableLoans          = "loans"
	TableReminders      = "reminders"
)
