package lending

import (
	"time"
)

// Loan status values. "late" is computed server-side from the return date;
// clients treat it as just another status requiring differentiation.
const (
	LoanStatusActive   = "active"
	LoanStatusLate     = "late"
	LoanStatusReturned = "returned"
)

// Loan is the authoritative record of an approved, in-progress (or
// completed) borrowing. Exactly one loan exists per approved request.
type Loan struct {
	ID                LoanIDString     `json:"id"`
	ItemID            ItemIDString     `json:"item_id"`
	BorrowerID        BorrowerIDString `json:"borrower_id"`
	RequestID         RequestIDString  `json:"request_id,omitempty"`
	ReturnBy          *time.Time       `json:"return_by,omitempty"`
	ReturnedAt        *time.Time       `json:"returned_at,omitempty"`
	Status            string           `json:"status"`
	PrivatePossession bool             `json:"private_possession"`
	Created           time.Time        `json:"created"`
}

// IsOpen reports whether the loan is still running (active or late).
func (l Loan) IsOpen() bool {
	return l.Status == LoanStatusActive || l.Status == LoanStatusLate
}

// IsLate reports whether the loan is overdue.
func (l Loan) IsLate() bool {
	return l.Status == LoanStatusLate
}
