package observer

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/shelfshare/shelfshare-go/lending"
	"github.com/shelfshare/shelfshare-go/realtime"
	"github.com/shelfshare/shelfshare-go/recordstore"
)

const (
	// UnknownItemLabel is rendered when an event references an item outside
	// the hydrated scope.
	UnknownItemLabel = "Unknown item"

	// UnknownBorrowerLabel is rendered when a borrower is not locally known.
	UnknownBorrowerLabel = "Unknown"

	logMsgHydrated            = "view hydrated"
	logMsgSubscribeFailed     = "realtime subscribe failed, view state may go stale"
	logMsgDecodeRecordFailed  = "failed to decode realtime record, event skipped"
	logAttrScope              = "scope"
	logAttrTable              = "table"
	logAttrAction             = "action"
	logAttrError              = "error"
	logAttrPendingCount       = "pending_count"
	logAttrOpenLoanCount      = "open_loan_count"
)

var ErrNilStoreSupplied = errors.New("nil record store supplied")
var ErrNilChannelSupplied = errors.New("nil realtime channel supplied")

// Logger interface for hydration logging, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// View is one observer of the borrow lifecycle. It hydrates its collections
// from the record store on Start, then keeps them consistent with
// server-authoritative state by folding realtime events through the shared
// reconciliation rules. It is safe for concurrent use.
type View struct {
	scope   Scope
	store   recordstore.Store
	channel realtime.Subscriber
	logger  Logger

	mu               sync.Mutex
	pendingRequests  map[lending.RequestIDString]lending.BorrowRequest
	resolvedRequests map[lending.RequestIDString]lending.BorrowRequest
	openLoans        map[lending.LoanIDString]lending.Loan
	items            map[lending.ItemIDString]lending.Item
	borrowers        map[lending.BorrowerIDString]lending.Borrower
	subscription     realtime.Subscription
}

// Option defines a functional option for configuring a View.
type Option func(*View) error

// WithLogger sets the logger for the View.
func WithLogger(logger Logger) Option {
	return func(v *View) error {
		v.logger = logger
		return nil
	}
}

// NewView creates a View for the given scope.
func NewView(scope Scope, store recordstore.Store, channel realtime.Subscriber, options ...Option) (*View, error) {
	if store == nil {
		return nil, ErrNilStoreSupplied
	}

	if channel == nil {
		return nil, ErrNilChannelSupplied
	}

	view := &View{
		scope:            scope,
		store:            store,
		channel:          channel,
		pendingRequests:  make(map[lending.RequestIDString]lending.BorrowRequest),
		resolvedRequests: make(map[lending.RequestIDString]lending.BorrowRequest),
		openLoans:        make(map[lending.LoanIDString]lending.Loan),
		items:            make(map[lending.ItemIDString]lending.Item),
		borrowers:        make(map[lending.BorrowerIDString]lending.Borrower),
	}

	for _, option := range options {
		if err := option(view); err != nil {
			return nil, err
		}
	}

	return view, nil
}

// Start performs the full reload of the view's collections and then
// subscribes to the realtime stream. A hydration failure is returned to the
// caller; a subscription failure is only logged, since realtime is an
// optimization layer and the hydrated state remains usable (just stale).
func (v *View) Start(ctx context.Context) error {
	if err := v.hydrate(ctx); err != nil {
		return err
	}

	subscription, err := v.channel.Subscribe(
		[]string{lending.TableBorrowRequests, lending.TableLoans},
		v.handleEvent,
	)
	if err != nil {
		v.logWarn(logMsgSubscribeFailed, logAttrScope, v.scope.Name(), logAttrError, err)
		return nil
	}

	v.mu.Lock()
	v.subscription = subscription
	v.mu.Unlock()

	return nil
}

// Close tears the realtime subscription down. Safe to call twice and safe
// to call on a view that never started.
func (v *View) Close() {
	v.mu.Lock()
	subscription := v.subscription
	v.subscription = nil
	v.mu.Unlock()

	if subscription != nil {
		subscription.Unsubscribe()
	}
}

func (v *View) hydrate(ctx context.Context) error {
	pending, err := v.listRequests(ctx, lending.RequestStatusPending)
	if err != nil {
		return err
	}

	var resolved []lending.BorrowRequest
	if v.scope.TracksResolved() {
		resolved, err = v.listRequests(ctx, lending.RequestStatusApproved, lending.RequestStatusDeclined)
		if err != nil {
			return err
		}
	}

	open, err := v.listLoans(ctx)
	if err != nil {
		return err
	}

	items, borrowers, err := v.listLabels(ctx)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.pendingRequests = make(map[lending.RequestIDString]lending.BorrowRequest, len(pending))
	for _, request := range pending {
		if inLibrary(items, v.scope.libraryID, request.ItemID) {
			v.pendingRequests[request.ID] = request
		}
	}

	v.resolvedRequests = make(map[lending.RequestIDString]lending.BorrowRequest, len(resolved))
	for _, request := range resolved {
		if inLibrary(items, v.scope.libraryID, request.ItemID) {
			v.resolvedRequests[request.ID] = request
		}
	}

	v.openLoans = make(map[lending.LoanIDString]lending.Loan, len(open))
	for _, loan := range open {
		if inLibrary(items, v.scope.libraryID, loan.ItemID) {
			v.openLoans[loan.ID] = loan
		}
	}

	v.items = items
	v.borrowers = borrowers

	v.logDebug(logMsgHydrated,
		logAttrScope, v.scope.Name(),
		logAttrPendingCount, len(v.pendingRequests),
		logAttrOpenLoanCount, len(v.openLoans),
	)

	return nil
}

func (v *View) listRequests(ctx context.Context, statuses ...string) ([]lending.BorrowRequest, error) {
	predicates := make([]recordstore.FieldPredicate, 0, len(statuses))
	for _, status := range statuses {
		predicates = append(predicates, recordstore.P("status", status))
	}

	filter := recordstore.BuildListFilter().
		Matching().
		AnyFieldValueOf(predicates[0], predicates[1:]...).
		AndSortedByDesc("created").
		AndPerPage(v.scope.hydratePerPage).
		Finalize()

	records, err := v.store.List(ctx, lending.TableBorrowRequests, filter)
	if err != nil {
		return nil, err
	}

	requests := make([]lending.BorrowRequest, 0, len(records))
	for _, record := range records {
		var request lending.BorrowRequest
		if decodeErr := record.Decode(&request); decodeErr != nil {
			return nil, decodeErr
		}

		requests = append(requests, request)
	}

	return requests, nil
}

func (v *View) listLoans(ctx context.Context) ([]lending.Loan, error) {
	filter := recordstore.BuildListFilter().
		Matching().
		AnyFieldValueOf(
			recordstore.P("status", lending.LoanStatusActive),
			recordstore.P("status", lending.LoanStatusLate),
		).
		AndSortedByDesc("created").
		AndPerPage(v.scope.hydratePerPage).
		Finalize()

	records, err := v.store.List(ctx, lending.TableLoans, filter)
	if err != nil {
		return nil, err
	}

	loans := make([]lending.Loan, 0, len(records))
	for _, record := range records {
		var loan lending.Loan
		if decodeErr := record.Decode(&loan); decodeErr != nil {
			return nil, decodeErr
		}

		loans = append(loans, loan)
	}

	return loans, nil
}

// listLabels hydrates items and borrowers across all libraries: the library
// filter needs every item's library id to exclude records, and labels must
// resolve for any borrower a record references.
func (v *View) listLabels(ctx context.Context) (
	map[lending.ItemIDString]lending.Item,
	map[lending.BorrowerIDString]lending.Borrower,
	error,
) {
	filter := recordstore.BuildListFilter().
		SortedByAsc("created").
		AndPerPage(v.scope.hydratePerPage).
		Finalize()

	itemRecords, err := v.store.List(ctx, lending.TableItems, filter)
	if err != nil {
		return nil, nil, err
	}

	items := make(map[lending.ItemIDString]lending.Item, len(itemRecords))
	for _, record := range itemRecords {
		var item lending.Item
		if decodeErr := record.Decode(&item); decodeErr != nil {
			return nil, nil, decodeErr
		}

		items[item.ID] = item
	}

	borrowerRecords, err := v.store.List(ctx, lending.TableBorrowers, filter)
	if err != nil {
		return nil, nil, err
	}

	borrowers := make(map[lending.BorrowerIDString]lending.Borrower, len(borrowerRecords))
	for _, record := range borrowerRecords {
		var borrower lending.Borrower
		if decodeErr := record.Decode(&borrower); decodeErr != nil {
			return nil, nil, decodeErr
		}

		borrowers[borrower.ID] = borrower
	}

	return items, borrowers, nil
}

// handleEvent folds one realtime event into the view's collections.
// Decode failures are logged and skipped; reconciliation must never crash a
// view (see the package doc).
func (v *View) handleEvent(event realtime.Event) {
	switch event.Table {
	case lending.TableBorrowRequests:
		var request lending.BorrowRequest
		if err := event.Record.Decode(&request); err != nil {
			v.logWarn(logMsgDecodeRecordFailed,
				logAttrScope, v.scope.Name(), logAttrTable, event.Table, logAttrAction, event.Action, logAttrError, err)
			return
		}

		v.mu.Lock()
		if inLibrary(v.items, v.scope.libraryID, request.ItemID) {
			ReconcileRequest(v.pendingRequests, v.resolvedRequests, event.Action, request)
		}
		v.mu.Unlock()

	case lending.TableLoans:
		var loan lending.Loan
		if err := event.Record.Decode(&loan); err != nil {
			v.logWarn(logMsgDecodeRecordFailed,
				logAttrScope, v.scope.Name(), logAttrTable, event.Table, logAttrAction, event.Action, logAttrError, err)
			return
		}

		v.mu.Lock()
		if inLibrary(v.items, v.scope.libraryID, loan.ItemID) {
			ReconcileLoan(v.openLoans, event.Action, loan)
		}
		v.mu.Unlock()
	}
}

/***** optimistic local updates, used by the lifecycle actions *****/

// RemovePendingRequest removes a request from the pending set, e.g. after a
// successful approve or decline. The realtime echo of the same transition
// is a no-op afterwards.
func (v *View) RemovePendingRequest(requestID lending.RequestIDString) {
	v.mu.Lock()
	defer v.mu.Unlock()

	delete(v.pendingRequests, requestID)
}

// RecordResolvedRequest records a request in the resolved bucket.
func (v *View) RecordResolvedRequest(request lending.BorrowRequest) {
	v.mu.Lock()
	defer v.mu.Unlock()

	delete(v.pendingRequests, request.ID)
	v.resolvedRequests[request.ID] = request
}

// InsertLoan inserts a loan optimistically so the UI reflects an approval
// without waiting for the realtime round-trip. Inserting an already known
// loan id is a no-op.
func (v *View) InsertLoan(loan lending.Loan) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, exists := v.openLoans[loan.ID]; exists {
		return
	}

	v.openLoans[loan.ID] = loan
}

// RemoveLoan removes a loan from the open set, e.g. after a return.
func (v *View) RemoveLoan(loanID lending.LoanIDString) {
	v.mu.Lock()
	defer v.mu.Unlock()

	delete(v.openLoans, loanID)
}

/***** snapshots *****/

// PendingRequests returns the pending requests, oldest first.
func (v *View) PendingRequests() []lending.BorrowRequest {
	v.mu.Lock()
	defer v.mu.Unlock()

	return sortedRequests(v.pendingRequests)
}

// ResolvedRequests returns the resolved requests, oldest first.
// Only populated for scopes that track resolutions.
func (v *View) ResolvedRequests() []lending.BorrowRequest {
	v.mu.Lock()
	defer v.mu.Unlock()

	return sortedRequests(v.resolvedRequests)
}

// OpenLoans returns the active and late loans, oldest first.
func (v *View) OpenLoans() []lending.Loan {
	v.mu.Lock()
	defer v.mu.Unlock()

	return sortedLoans(v.openLoans, func(lending.Loan) bool { return true })
}

// OverdueLoans returns the late loans, oldest first. This is the bell's
// overdue-alert set; it is derived from the open-loans collection so the
// create/update rules cannot diverge from the other views.
func (v *View) OverdueLoans() []lending.Loan {
	v.mu.Lock()
	defer v.mu.Unlock()

	return sortedLoans(v.openLoans, lending.Loan.IsLate)
}

// PendingCount returns the number of pending requests.
func (v *View) PendingCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return len(v.pendingRequests)
}

// OverdueCount returns the number of late loans.
func (v *View) OverdueCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	count := 0
	for _, loan := range v.openLoans {
		if loan.IsLate() {
			count++
		}
	}

	return count
}

// ItemName resolves an item id to its display name, falling back to
// UnknownItemLabel for items outside the hydrated scope.
func (v *View) ItemName(itemID lending.ItemIDString) string {
	v.mu.Lock()
	defer v.mu.Unlock()

	if item, known := v.items[itemID]; known {
		return item.Name
	}

	return UnknownItemLabel
}

// BorrowerName resolves a borrower id to its display name, falling back to
// UnknownBorrowerLabel.
func (v *View) BorrowerName(borrowerID lending.BorrowerIDString) string {
	v.mu.Lock()
	defer v.mu.Unlock()

	if borrower, known := v.borrowers[borrowerID]; known {
		return borrower.Name
	}

	return UnknownBorrowerLabel
}

// inLibrary reports whether a record referencing itemID belongs to the given
// library. Requests and loans carry no library id of their own, so membership
// resolves through the item. An empty libraryID disables the filter; records
// referencing items outside the hydrated item set are kept, label resolution
// renders them as unknown.
func inLibrary(items map[lending.ItemIDString]lending.Item, libraryID string, itemID lending.ItemIDString) bool {
	if libraryID == "" {
		return true
	}

	item, known := items[itemID]
	if !known {
		return true
	}

	return item.LibraryID == libraryID
}

func sortedRequests(requests map[lending.RequestIDString]lending.BorrowRequest) []lending.BorrowRequest {
	result := make([]lending.BorrowRequest, 0, len(requests))
	for _, request := range requests {
		result = append(result, request)
	}

	slices.SortFunc(result, func(a, b lending.BorrowRequest) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})

	return result
}

func sortedLoans(loans map[lending.LoanIDString]lending.Loan, keep func(lending.Loan) bool) []lending.Loan {
	result := make([]lending.Loan, 0, len(loans))
	for _, loan := range loans {
		if keep(loan) {
			result = append(result, loan)
		}
	}

	slices.SortFunc(result, func(a, b lending.Loan) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})

	return result
}

func (v *View) logDebug(msg string, args ...any) {
	if v.logger != nil {
		v.logger.Debug(msg, args...)
	}
}

func (v *View) logWarn(msg string, args ...any) {
	if v.logger != nil {
		v.logger.Warn(msg, args...)
	}
}
