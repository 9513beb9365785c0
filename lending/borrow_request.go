package lending

import (
	"time"
)

// BorrowRequest status values.
const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusDeclined  = "declined"
	RequestStatusCancelled = "cancelled"
)

// BorrowRequest is a borrower's pending ask to borrow a specific item.
// It is created by a borrower action and mutated only by the item's owner
// (approve/decline) or by server-driven expiry (cancelled).
type BorrowRequest struct {
	ID                RequestIDString  `json:"id"`
	ItemID            ItemIDString     `json:"item_id"`
	BorrowerID        BorrowerIDString `json:"borrower_id"`
	Message           string           `json:"message,omitempty"`
	ReturnBy          *time.Time       `json:"return_by,omitempty"`
	PrivatePossession bool             `json:"private_possession"`
	Status            string           `json:"status"`
	Created           time.Time        `json:"created"`
}

// BuildBorrowRequest creates a pending BorrowRequest without a server-assigned id.
func BuildBorrowRequest(
	itemID ItemIDString,
	borrowerID BorrowerIDString,
	message string,
	returnBy *time.Time,
	privatePossession bool,
) BorrowRequest {
	return BorrowRequest{
		ItemID:            itemID,
		BorrowerID:        borrowerID,
		Message:           message,
		ReturnBy:          returnBy,
		PrivatePossession: privatePossession,
		Status:            RequestStatusPending,
	}
}

// IsPending reports whether the request still awaits an owner decision.
func (r BorrowRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// IsResolved reports whether the request reached a terminal status.
func (r BorrowRequest) IsResolved() bool {
	return !r.IsPending()
}
