package schedulereminders

import (
	"time"

	"github.com/shelfshare/shelfshare-go/lending"
)

const commandType = "ScheduleReminders"

// Command carries everything needed to render and schedule the reminder
// sequence for one loan. Names are interpolated into the messages at
// schedule time, not at send time.
type Command struct {
	LoanID       lending.LoanIDString
	ItemName     string
	OwnerName    string
	BorrowerName string
	ReturnBy     *time.Time
}

// CommandType returns the type identifier for this command, used for observability and logging.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	loanID lending.LoanIDString,
	itemName string,
	ownerName string,
	borrowerName string,
	returnBy *time.Time,
) Command {
	return Command{
		LoanID:       loanID,
		ItemName:     itemName,
		OwnerName:    ownerName,
		BorrowerName: borrowerName,
		ReturnBy:     returnBy,
	}
}
