package observer

import (
	"github.com/shelfshare/shelfshare-go/lending"
	"github.com/shelfshare/shelfshare-go/realtime"
)

// ReconcileRequest folds one borrow_requests event into the pending and
// resolved collections. This is a pure function over the maps it is given;
// applying the same event twice is a no-op.
//
// Merge rules:
//
//	GIVEN: local pending/resolved request collections
//	WHEN: a borrow_requests event arrives
//	THEN: create + pending inserts unless the id is already present
//	THEN: update + non-pending removes from pending, records as resolved once
//	THEN: update + pending upserts in place (message edits, scope gaps)
//	THEN: delete removes from both collections
func ReconcileRequest(
	pending map[lending.RequestIDString]lending.BorrowRequest,
	resolved map[lending.RequestIDString]lending.BorrowRequest,
	action string,
	request lending.BorrowRequest,
) {
	switch action {
	case realtime.ActionCreate:
		if !request.IsPending() {
			return
		}

		if _, exists := pending[request.ID]; exists {
			return // the optimistic local insert already happened
		}

		pending[request.ID] = request

	case realtime.ActionUpdate:
		if request.IsResolved() {
			delete(pending, request.ID)
			resolved[request.ID] = request

			return
		}

		pending[request.ID] = request

	case realtime.ActionDelete:
		delete(pending, request.ID)
		delete(resolved, request.ID)
	}
}

// ReconcileLoan folds one loans event into the open-loans collection.
// Pure over the map it is given; double-application is a no-op.
//
// Merge rules:
//
//	GIVEN: local open-loans collection (active and late loans)
//	WHEN: a loans event arrives
//	THEN: create inserts unless the id is already present
//	THEN: update + returned removes
//	THEN: update + any other status replaces the entry in place
//	THEN: delete removes
func ReconcileLoan(
	open map[lending.LoanIDString]lending.Loan,
	action string,
	loan lending.Loan,
) {
	switch action {
	case realtime.ActionCreate:
		if _, exists := open[loan.ID]; exists {
			return
		}

		open[loan.ID] = loan

	case realtime.ActionUpdate:
		if loan.Status == lending.LoanStatusReturned {
			delete(open, loan.ID)
			return
		}

		open[loan.ID] = loan

	case realtime.ActionDelete:
		delete(open, loan.ID)
	}
}
