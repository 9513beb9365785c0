package submitrequest

import (
	"time"

	"github.com/shelfshare/shelfshare-go/lending"
)

const commandType = "SubmitBorrowRequest"

// Command represents a borrower's intent to borrow an item.
// Name and phone identify the borrower; the phone number is the stable
// identity, so submitting with a known phone and a new name renames the
// existing borrower instead of creating a duplicate.
type Command struct {
	ItemID            lending.ItemIDString
	Name              string
	Phone             lending.PhoneString
	Message           string
	ReturnBy          *time.Time
	PrivatePossession bool
}

// CommandType returns the type identifier for this command, used for observability and logging.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	itemID lending.ItemIDString,
	name string,
	phone lending.PhoneString,
	message string,
	returnBy *time.Time,
	privatePossession bool,
) Command {
	return Command{
		ItemID:            itemID,
		Name:              name,
		Phone:             phone,
		Message:           message,
		ReturnBy:          returnBy,
		PrivatePossession: privatePossession,
	}
}
