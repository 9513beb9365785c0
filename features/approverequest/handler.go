package approverequest

import (
	"context"
	"time"

	"github.com/shelfshare/shelfshare-go/features/schedulereminders"
	"github.com/shelfshare/shelfshare-go/lending"
)

// DefaultBorrowDays is the due-date default when a request names no
// return-by date of its own.
const DefaultBorrowDays = 14

const taskNameScheduleReminders = "schedule-reminders"

// RemoteProcedures defines the interface needed by the Handler.
type RemoteProcedures interface {
	ApproveBorrow(ctx context.Context, requestID lending.RequestIDString, returnBy time.Time) (lending.Loan, error)
}

// PendingView is the slice of the observer a successful approval mutates
// optimistically, so the UI reflects the new loan without waiting for the
// realtime round-trip.
type PendingView interface {
	RemovePendingRequest(requestID lending.RequestIDString)
	InsertLoan(loan lending.Loan)
}

// ReminderScheduler defines the interface to the reminder side effect.
type ReminderScheduler interface {
	Handle(ctx context.Context, command schedulereminders.Command) (int, error)
}

// TaskRunner spawns the detached reminder task.
type TaskRunner interface {
	Run(name string, fn func() error)
}

// Handler executes the approve transition.
type Handler struct {
	procedures RemoteProcedures
	view       PendingView
	reminders  ReminderScheduler
	tasks      TaskRunner
	clock      func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock sets a custom time source, used by tests to pin "now".
func WithClock(clock func() time.Time) Option {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler creates a new Handler with optional configuration.
func NewHandler(
	procedures RemoteProcedures,
	view PendingView,
	reminders ReminderScheduler,
	tasks TaskRunner,
	opts ...Option,
) Handler {
	handler := Handler{
		procedures: procedures,
		view:       view,
		reminders:  reminders,
		tasks:      tasks,
		clock:      time.Now,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle approves the request and returns the created loan.
//
// The effective due date is the request's own return-by date when present,
// otherwise now plus DefaultBorrowDays. On success, the request leaves the
// local pending set and the loan enters the local open set before the
// realtime echo arrives; then reminder scheduling is spawned detached - its
// failure is logged by the task runner and never affects the approval.
//
// Retrying after a failure is safe: the server owns the authoritative
// request status and rejects invalid transitions, which surfaces here as a
// normal failed-call error.
func (h Handler) Handle(ctx context.Context, command Command) (lending.Loan, error) {
	returnBy := h.effectiveDueDate(command.Request)

	loan, err := h.procedures.ApproveBorrow(ctx, command.Request.ID, returnBy)
	if err != nil {
		return lending.Loan{}, err
	}

	if h.view != nil {
		h.view.RemovePendingRequest(command.Request.ID)
		h.view.InsertLoan(loan)
	}

	h.spawnReminderScheduling(ctx, command, loan, returnBy)

	return loan, nil
}

func (h Handler) effectiveDueDate(request lending.BorrowRequest) time.Time {
	if request.ReturnBy != nil {
		return *request.ReturnBy
	}

	return h.clock().Add(DefaultBorrowDays * 24 * time.Hour)
}

func (h Handler) spawnReminderScheduling(ctx context.Context, command Command, loan lending.Loan, returnBy time.Time) {
	if h.reminders == nil || h.tasks == nil {
		return
	}

	scheduleReturnBy := loan.ReturnBy
	if scheduleReturnBy == nil {
		scheduleReturnBy = &returnBy
	}

	// The task outlives the approve call; only cancellation is detached.
	taskCtx := context.WithoutCancel(ctx)

	reminderCommand := schedulereminders.BuildCommand(
		loan.ID,
		command.ItemName,
		command.OwnerName,
		command.BorrowerName,
		scheduleReturnBy,
	)

	h.tasks.Run(taskNameScheduleReminders, func() error {
		_, scheduleErr := h.reminders.Handle(taskCtx, reminderCommand)
		return scheduleErr
	})
}
