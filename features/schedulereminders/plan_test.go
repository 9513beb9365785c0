package schedulereminders_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shelfshare/shelfshare-go/features/schedulereminders"
	"github.com/shelfshare/shelfshare-go/lending"
)

func reminderTypes(reminders []lending.Reminder) []string {
	types := make([]string, 0, len(reminders))
	for _, reminder := range reminders {
		types = append(types, reminder.ReminderType)
	}

	return types
}

func Test_Plan_WithoutReturnBy_SchedulesOnlyConfirmation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	command := schedulereminders.BuildCommand("loan-1", "Ladder", "Bob", "Alice", nil)

	reminders := schedulereminders.Plan(command, now)

	assert.Len(t, reminders, 1)
	assert.Equal(t, lending.ReminderConfirmation, reminders[0].ReminderType)
	assert.Equal(t, lending.ToTimestamp(now), reminders[0].ScheduledFor)
	assert.Equal(t, `Hi Alice, Bob approved your request to borrow "Ladder".`, reminders[0].Message)
}

func Test_Plan_WithDistantReturnBy_SchedulesFullSequence(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	returnBy := now.Add(14 * 24 * time.Hour)
	command := schedulereminders.BuildCommand("loan-1", "Ladder", "Bob", "Alice", &returnBy)

	reminders := schedulereminders.Plan(command, now)

	assert.Len(t, reminders, 6)
	assert.Equal(t, []string{
		lending.ReminderConfirmation,
		lending.ReminderUpcoming,
		lending.ReminderDueToday,
		lending.ReminderOverdue1d,
		lending.ReminderOverdue3d,
		lending.ReminderOverdue7d,
	}, reminderTypes(reminders))
}

func Test_Plan_WithNearReturnBy_SkipsUpcomingReminder(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	returnBy := now.Add(24 * time.Hour) // upcoming would land in the past
	command := schedulereminders.BuildCommand("loan-1", "Ladder", "Bob", "Alice", &returnBy)

	reminders := schedulereminders.Plan(command, now)

	assert.Len(t, reminders, 5)
	assert.NotContains(t, reminderTypes(reminders), lending.ReminderUpcoming)
}

func Test_Plan_SchedulesRemindersOnTheReturnTimeline(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	returnBy := now.Add(14 * 24 * time.Hour)
	command := schedulereminders.BuildCommand("loan-1", "Ladder", "Bob", "Alice", &returnBy)

	reminders := schedulereminders.Plan(command, now)
	byType := make(map[string]lending.Reminder, len(reminders))
	for _, reminder := range reminders {
		byType[reminder.ReminderType] = reminder
	}

	assert.Equal(t, lending.ToTimestamp(now), byType[lending.ReminderConfirmation].ScheduledFor)
	assert.Equal(t, lending.ToTimestamp(returnBy.Add(-48*time.Hour)), byType[lending.ReminderUpcoming].ScheduledFor)
	assert.Equal(t, lending.ToTimestamp(returnBy), byType[lending.ReminderDueToday].ScheduledFor)
	assert.Equal(t, lending.ToTimestamp(returnBy.Add(24*time.Hour)), byType[lending.ReminderOverdue1d].ScheduledFor)
	assert.Equal(t, lending.ToTimestamp(returnBy.Add(3*24*time.Hour)), byType[lending.ReminderOverdue3d].ScheduledFor)
	assert.Equal(t, lending.ToTimestamp(returnBy.Add(7*24*time.Hour)), byType[lending.ReminderOverdue7d].ScheduledFor)
}

func Test_Plan_RendersMessagesAtScheduleTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	returnBy := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	command := schedulereminders.BuildCommand("loan-1", "Ladder", "Bob", "Alice", &returnBy)

	reminders := schedulereminders.Plan(command, now)
	byType := make(map[string]lending.Reminder, len(reminders))
	for _, reminder := range reminders {
		byType[reminder.ReminderType] = reminder
	}

	assert.Equal(t,
		`Hi Alice, Bob approved your request to borrow "Ladder". Please return it by Sunday, March 15.`,
		byType[lending.ReminderConfirmation].Message)
	assert.Equal(t,
		`Hi Alice, a friendly reminder: "Ladder" is due back to Bob on Sunday, March 15.`,
		byType[lending.ReminderUpcoming].Message)
	assert.Equal(t,
		`Hi Alice, "Ladder" is due back to Bob today.`,
		byType[lending.ReminderDueToday].Message)
	assert.Equal(t,
		`Hi Alice, "Ladder" is 1 day overdue. Please arrange its return with Bob.`,
		byType[lending.ReminderOverdue1d].Message)
	assert.Equal(t,
		`Hi Alice, "Ladder" is 3 days overdue. Please arrange its return with Bob.`,
		byType[lending.ReminderOverdue3d].Message)
	assert.Equal(t,
		`Hi Alice, "Ladder" is 7 days overdue. Please arrange its return with Bob.`,
		byType[lending.ReminderOverdue7d].Message)
}
