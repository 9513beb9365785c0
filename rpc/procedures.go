package rpc

import (
	"context"
	"time"

	"github.com/shelfshare/shelfshare-go/lending"
)

// Names of the server-side procedures the borrow lifecycle consumes.
const (
	ProcedureRequestBorrow = "request_borrow"
	ProcedureApproveBorrow = "approve_borrow"
	ProcedureReturnItem    = "return_item"
)

// RequestBorrowParams is the wire shape of the request_borrow procedure.
type RequestBorrowParams struct {
	ItemID            lending.ItemIDString `json:"item_id"`
	BorrowerName      string               `json:"borrower_name"`
	BorrowerPhone     lending.PhoneString  `json:"borrower_phone"`
	Message           string               `json:"message,omitempty"`
	ReturnBy          *time.Time           `json:"return_by,omitempty"`
	PrivatePossession bool                 `json:"private_possession"`
}

// RequestBorrow creates a borrow request atomically on the server:
// availability check, borrower upsert and request insert in one transaction.
func (c *Client) RequestBorrow(ctx context.Context, params RequestBorrowParams) (lending.BorrowRequest, error) {
	var request lending.BorrowRequest

	if err := c.Call(ctx, ProcedureRequestBorrow, params, &request); err != nil {
		return lending.BorrowRequest{}, err
	}

	return request, nil
}

type approveBorrowParams struct {
	RequestID lending.RequestIDString `json:"request_id"`
	ReturnBy  time.Time               `json:"return_by"`
}

// ApproveBorrow approves a pending request and returns the created loan.
func (c *Client) ApproveBorrow(ctx context.Context, requestID lending.RequestIDString, returnBy time.Time) (lending.Loan, error) {
	var loan lending.Loan

	params := approveBorrowParams{
		RequestID: requestID,
		ReturnBy:  lending.ToTimestamp(returnBy),
	}

	if err := c.Call(ctx, ProcedureApproveBorrow, params, &loan); err != nil {
		return lending.Loan{}, err
	}

	return loan, nil
}

type returnItemParams struct {
	LoanID lending.LoanIDString `json:"loan_id"`
}

// ReturnItem marks a loan as returned. The procedure resolves to void.
func (c *Client) ReturnItem(ctx context.Context, loanID lending.LoanIDString) error {
	return c.Call(ctx, ProcedureReturnItem, returnItemParams{LoanID: loanID}, nil)
}
