package returnitem

import (
	"context"
	"errors"

	"github.com/shelfshare/shelfshare-go/lending"
)

const commandType = "ReturnItem"

// ErrConfirmationRequired is returned when the command was built without
// the explicit confirmation step.
var ErrConfirmationRequired = errors.New("marking a loan as returned requires explicit confirmation")

// Command represents the owner's confirmed intent to mark a loan returned.
type Command struct {
	LoanID    lending.LoanIDString
	Confirmed bool
}

// CommandType returns the type identifier for this command, used for observability and logging.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(loanID lending.LoanIDString, confirmed bool) Command {
	return Command{
		LoanID:    loanID,
		Confirmed: confirmed,
	}
}

// RemoteProcedures defines the interface needed by the Handler.
type RemoteProcedures interface {
	ReturnItem(ctx context.Context, loanID lending.LoanIDString) error
}

// LoanView is the slice of the observer a successful return mutates.
type LoanView interface {
	RemoveLoan(loanID lending.LoanIDString)
}

// Handler executes the return transition.
type Handler struct {
	procedures RemoteProcedures
	view       LoanView
}

// NewHandler creates a new Handler.
func NewHandler(procedures RemoteProcedures, view LoanView) Handler {
	return Handler{
		procedures: procedures,
		view:       view,
	}
}

// Handle marks the loan returned. Without Confirmed it refuses to run. The
// local open/overdue sets are only touched after the procedure succeeds.
// Retrying after a failure is safe; the server rejects invalid transitions.
func (h Handler) Handle(ctx context.Context, command Command) error {
	if !command.Confirmed {
		return ErrConfirmationRequired
	}

	if err := h.procedures.ReturnItem(ctx, command.LoanID); err != nil {
		return err
	}

	if h.view != nil {
		h.view.RemoveLoan(command.LoanID)
	}

	return nil
}
