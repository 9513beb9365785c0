package approverequest

import (
	"github.com/shelfshare/shelfshare-go/lending"
)

const commandType = "ApproveBorrowRequest"

// Command represents the owner's intent to approve a pending borrow
// request. The display names feed the reminder messages, which are rendered
// at schedule time.
type Command struct {
	Request      lending.BorrowRequest
	ItemName     string
	OwnerName    string
	BorrowerName string
}

// CommandType returns the type identifier for this command, used for observability and logging.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(request lending.BorrowRequest, itemName string, ownerName string, borrowerName string) Command {
	return Command{
		Request:      request,
		ItemName:     itemName,
		OwnerName:    ownerName,
		BorrowerName: borrowerName,
	}
}
