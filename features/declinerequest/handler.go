package declinerequest

import (
	"context"
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/shelfshare/shelfshare-go/lending"
	"github.com/shelfshare/shelfshare-go/recordstore"
)

const commandType = "DeclineBorrowRequest"

// ErrConfirmationRequired is returned when the command was built without
// the explicit confirmation step.
var ErrConfirmationRequired = errors.New("declining a borrow request requires explicit confirmation")

// Command represents the owner's confirmed intent to decline a request.
type Command struct {
	RequestID lending.RequestIDString
	Confirmed bool
}

// CommandType returns the type identifier for this command, used for observability and logging.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(requestID lending.RequestIDString, confirmed bool) Command {
	return Command{
		RequestID: requestID,
		Confirmed: confirmed,
	}
}

// RecordStore defines the interface needed by the Handler.
type RecordStore interface {
	Update(ctx context.Context, table string, id string, dataJSON []byte) (recordstore.Record, error)
}

// PendingView is the slice of the observer a successful decline mutates.
type PendingView interface {
	RecordResolvedRequest(request lending.BorrowRequest)
}

// Handler executes the decline transition.
type Handler struct {
	store RecordStore
	view  PendingView
}

// NewHandler creates a new Handler.
func NewHandler(store RecordStore, view PendingView) Handler {
	return Handler{
		store: store,
		view:  view,
	}
}

// Handle declines the request. Without Confirmed it refuses to run. The
// local pending set is only touched after the server update succeeds, so a
// failed decline leaves the request visible for retry.
func (h Handler) Handle(ctx context.Context, command Command) error {
	if !command.Confirmed {
		return ErrConfirmationRequired
	}

	patch, err := jsoniter.ConfigFastest.Marshal(struct {
		Status string `json:"status"`
	}{Status: lending.RequestStatusDeclined})
	if err != nil {
		return err
	}

	updated, err := h.store.Update(ctx, lending.TableBorrowRequests, command.RequestID, patch)
	if err != nil {
		return err
	}

	if h.view != nil {
		var request lending.BorrowRequest
		if decodeErr := updated.Decode(&request); decodeErr == nil && request.ID != "" {
			h.view.RecordResolvedRequest(request)
		} else {
			h.view.RecordResolvedRequest(lending.BorrowRequest{
				ID:     command.RequestID,
				Status: lending.RequestStatusDeclined,
			})
		}
	}

	return nil
}
