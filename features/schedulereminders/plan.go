package schedulereminders

import (
	"fmt"
	"time"

	"github.com/shelfshare/shelfshare-go/lending"
)

const (
	upcomingLeadTime = 48 * time.Hour
	dateLayout       = "Monday, January 2"
)

// Plan implements the scheduling logic for a loan's reminder sequence.
// This is a pure function with no side effects - it takes the command and
// the current time and returns the reminders that should be persisted.
//
// Scheduling Rules:
//
//	GIVEN: A loan with LoanID, optionally with a return-by date
//	WHEN: reminders are planned at approval time
//	THEN: one "confirmation" reminder scheduled for now, always
//	THEN: with a return-by date, "upcoming" at returnBy-2d ONLY if that
//	      instant is still in the future (never schedule into the past)
//	THEN: "due_today" at returnBy
//	THEN: "overdue_1d/3d/7d" at returnBy+{1,3,7}d, always - they describe
//	      future states of an active loan and are never skipped
func Plan(command Command, now time.Time) []lending.Reminder {
	reminders := []lending.Reminder{
		lending.BuildReminder(
			command.LoanID,
			lending.ReminderConfirmation,
			now,
			confirmationMessage(command),
		),
	}

	if command.ReturnBy == nil {
		return reminders
	}

	returnBy := *command.ReturnBy
	dueDate := returnBy.Format(dateLayout)

	if upcomingAt := returnBy.Add(-upcomingLeadTime); upcomingAt.After(now) {
		reminders = append(reminders, lending.BuildReminder(
			command.LoanID,
			lending.ReminderUpcoming,
			upcomingAt,
			fmt.Sprintf("Hi %s, a friendly reminder: %q is due back to %s on %s.",
				command.BorrowerName, command.ItemName, command.OwnerName, dueDate),
		))
	}

	reminders = append(reminders,
		lending.BuildReminder(
			command.LoanID,
			lending.ReminderDueToday,
			returnBy,
			fmt.Sprintf("Hi %s, %q is due back to %s today.",
				command.BorrowerName, command.ItemName, command.OwnerName),
		),
		lending.BuildReminder(
			command.LoanID,
			lending.ReminderOverdue1d,
			returnBy.Add(24*time.Hour),
			overdueMessage(command, 1),
		),
		lending.BuildReminder(
			command.LoanID,
			lending.ReminderOverdue3d,
			returnBy.Add(3*24*time.Hour),
			overdueMessage(command, 3),
		),
		lending.BuildReminder(
			command.LoanID,
			lending.ReminderOverdue7d,
			returnBy.Add(7*24*time.Hour),
			overdueMessage(command, 7),
		),
	)

	return reminders
}

func confirmationMessage(command Command) string {
	if command.ReturnBy != nil {
		return fmt.Sprintf("Hi %s, %s approved your request to borrow %q. Please return it by %s.",
			command.BorrowerName, command.OwnerName, command.ItemName, command.ReturnBy.Format(dateLayout))
	}

	return fmt.Sprintf("Hi %s, %s approved your request to borrow %q.",
		command.BorrowerName, command.OwnerName, command.ItemName)
}

func overdueMessage(command Command, days int) string {
	plural := ""
	if days > 1 {
		plural = "s"
	}

	return fmt.Sprintf("Hi %s, %q is %d day%s overdue. Please arrange its return with %s.",
		command.BorrowerName, command.ItemName, days, plural, command.OwnerName)
}
