package submitrequest

import (
	"context"
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/shelfshare/shelfshare-go/lending"
	"github.com/shelfshare/shelfshare-go/recordstore"
	"github.com/shelfshare/shelfshare-go/rpc"
)

const (
	logMsgFallingBack       = "request_borrow procedure unreachable, falling back to record store"
	logMsgBothPathsFailed   = "both submission paths failed"
	logAttrItemID           = "item_id"
	logAttrRPCError         = "rpc_error"
	logAttrRecordStoreError = "record_store_error"
)

// ErrItemNotAvailable is the authoritative availability rejection of the
// fallback path. The message matches the one the server-side procedure
// produces, so callers surface the same text on either path.
var ErrItemNotAvailable = errors.New("Item is not available for borrowing")

// ErrBorrowerCreateFailed marks the genuine inconsistency where borrower
// creation failed but no existing borrower was found on lookup either.
var ErrBorrowerCreateFailed = errors.New("Failed to create borrower record")

// RemoteProcedures defines the interface needed by the Handler for the
// canonical submission path.
type RemoteProcedures interface {
	RequestBorrow(ctx context.Context, params rpc.RequestBorrowParams) (lending.BorrowRequest, error)
}

// RecordStore defines the interface needed by the Handler for the
// direct-CRUD fallback path.
type RecordStore interface {
	Get(ctx context.Context, table string, id string) (recordstore.Record, error)
	List(ctx context.Context, table string, filter recordstore.ListFilter) (recordstore.Records, error)
	Create(ctx context.Context, table string, dataJSON []byte) (recordstore.Record, error)
	Update(ctx context.Context, table string, id string, dataJSON []byte) (recordstore.Record, error)
}

// Logger interface for fallback logging and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Handler orchestrates the dual-path borrow request submission.
type Handler struct {
	procedures RemoteProcedures
	store      RecordStore
	logger     Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger for the Handler.
func WithLogger(logger Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler creates a new Handler with optional configuration.
func NewHandler(procedures RemoteProcedures, store RecordStore, opts ...Option) Handler {
	handler := Handler{
		procedures: procedures,
		store:      store,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle submits the borrow request.
//
// Path policy:
//  1. The remote procedure runs first.
//  2. A domain-tagged failure re-raises immediately - zero CRUD calls.
//  3. A transport or session failure falls through to the record store.
//  4. When both paths fail, the record-store error wins (more specific);
//     the procedure error is only used when the fallback error carries no
//     message of its own.
//
// A fully failed submission leaves no borrow request behind. The borrower
// record may still exist, which is acceptable - borrowers are not
// request-scoped.
func (h Handler) Handle(ctx context.Context, command Command) (lending.BorrowRequest, error) {
	request, rpcErr := h.procedures.RequestBorrow(ctx, rpc.RequestBorrowParams{
		ItemID:            command.ItemID,
		BorrowerName:      command.Name,
		BorrowerPhone:     command.Phone,
		Message:           command.Message,
		ReturnBy:          command.ReturnBy,
		PrivatePossession: command.PrivatePossession,
	})
	if rpcErr == nil {
		return request, nil
	}

	if rpc.IsDomainError(rpcErr) {
		return lending.BorrowRequest{}, rpcErr
	}

	h.logDebug(logMsgFallingBack, logAttrItemID, command.ItemID, logAttrRPCError, rpcErr)

	request, storeErr := h.submitViaRecordStore(ctx, command)
	if storeErr == nil {
		return request, nil
	}

	h.logWarn(logMsgBothPathsFailed,
		logAttrItemID, command.ItemID, logAttrRPCError, rpcErr, logAttrRecordStoreError, storeErr)

	if storeErr.Error() == "" {
		return lending.BorrowRequest{}, rpcErr
	}

	return lending.BorrowRequest{}, storeErr
}

// submitViaRecordStore is the direct-CRUD path for deployments that run
// without the privileged procedure enabled.
func (h Handler) submitViaRecordStore(ctx context.Context, command Command) (lending.BorrowRequest, error) {
	itemRecord, err := h.store.Get(ctx, lending.TableItems, command.ItemID)
	if err != nil {
		return lending.BorrowRequest{}, err
	}

	var item lending.Item
	if err = itemRecord.Decode(&item); err != nil {
		return lending.BorrowRequest{}, err
	}

	if !item.IsAvailable() {
		return lending.BorrowRequest{}, ErrItemNotAvailable
	}

	borrower, err := h.resolveBorrower(ctx, command)
	if err != nil {
		return lending.BorrowRequest{}, err
	}

	requestRecord, err := recordstore.RecordFrom(
		lending.TableBorrowRequests,
		"",
		lending.BuildBorrowRequest(command.ItemID, borrower.ID, command.Message, command.ReturnBy, command.PrivatePossession),
	)
	if err != nil {
		return lending.BorrowRequest{}, err
	}

	created, err := h.store.Create(ctx, lending.TableBorrowRequests, requestRecord.DataJSON)
	if err != nil {
		return lending.BorrowRequest{}, err
	}

	var request lending.BorrowRequest
	if err = created.Decode(&request); err != nil {
		return lending.BorrowRequest{}, err
	}

	if request.ID == "" {
		request.ID = created.ID
	}

	return request, nil
}

// resolveBorrower creates the borrower, treating a failed create as a
// uniqueness conflict on the phone number: the existing borrower is looked
// up and, if the submitted name drifted, renamed in place.
func (h Handler) resolveBorrower(ctx context.Context, command Command) (lending.Borrower, error) {
	borrowerRecord, err := recordstore.RecordFrom(
		lending.TableBorrowers,
		"",
		lending.BuildBorrower(command.Phone, command.Name),
	)
	if err != nil {
		return lending.Borrower{}, err
	}

	created, createErr := h.store.Create(ctx, lending.TableBorrowers, borrowerRecord.DataJSON)
	if createErr == nil {
		var borrower lending.Borrower
		if err = created.Decode(&borrower); err != nil {
			return lending.Borrower{}, err
		}

		if borrower.ID == "" {
			borrower.ID = created.ID
		}

		return borrower, nil
	}

	return h.lookupExistingBorrower(ctx, command)
}

func (h Handler) lookupExistingBorrower(ctx context.Context, command Command) (lending.Borrower, error) {
	filter := recordstore.BuildListFilter().
		Matching().
		AnyFieldValueOf(recordstore.P("phone", command.Phone)).
		AndPerPage(1).
		Finalize()

	records, err := h.store.List(ctx, lending.TableBorrowers, filter)
	if err != nil {
		return lending.Borrower{}, err
	}

	if len(records) == 0 {
		return lending.Borrower{}, ErrBorrowerCreateFailed
	}

	var borrower lending.Borrower
	if err = records[0].Decode(&borrower); err != nil {
		return lending.Borrower{}, err
	}

	if borrower.ID == "" {
		borrower.ID = records[0].ID
	}

	if borrower.Name != command.Name {
		if err = h.renameBorrower(ctx, borrower.ID, command.Name); err != nil {
			return lending.Borrower{}, err
		}

		borrower.Name = command.Name
	}

	return borrower, nil
}

func (h Handler) renameBorrower(ctx context.Context, borrowerID lending.BorrowerIDString, name string) error {
	patch, err := jsoniter.ConfigFastest.Marshal(struct {
		Name string `json:"name"`
	}{Name: name})
	if err != nil {
		return err
	}

	_, err = h.store.Update(ctx, lending.TableBorrowers, borrowerID, patch)

	return err
}

func (h Handler) logDebug(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Debug(msg, args...)
	}
}

func (h Handler) logWarn(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Warn(msg, args...)
	}
}
