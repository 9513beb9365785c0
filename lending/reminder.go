package lending

import (
	"time"
)

// Reminder types, in timeline order.
const (
	ReminderConfirmation = "confirmation"
	ReminderUpcoming     = "upcoming"
	ReminderDueToday     = "due_today"
	ReminderOverdue1d    = "overdue_1d"
	ReminderOverdue3d    = "overdue_3d"
	ReminderOverdue7d    = "overdue_7d"
)

// Reminder is a scheduled, pre-rendered message tied to a loan's return
// timeline. Reminders are created in a batch right after a loan is created
// and consumed asynchronously by a delivery worker.
type Reminder struct {
	ID           string       `json:"id"`
	LoanID       LoanIDString `json:"loan_id"`
	ReminderType string       `json:"reminder_type"`
	ScheduledFor time.Time    `json:"scheduled_for"`
	Message      string       `json:"message"`
	SentAt       *time.Time   `json:"sent_at,omitempty"`
}

// BuildReminder creates a Reminder with a fully rendered message.
// The message is interpolated at schedule time, not at send time.
func BuildReminder(loanID LoanIDString, reminderType string, scheduledFor time.Time, message string) Reminder {
	return Reminder{
		LoanID:       loanID,
		ReminderType: reminderType,
		ScheduledFor: ToTimestamp(scheduledFor),
		Message:      message,
	}
}
