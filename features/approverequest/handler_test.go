package approverequest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shelfshare/shelfshare-go/features/approverequest"
	"github.com/shelfshare/shelfshare-go/features/schedulereminders"
	"github.com/shelfshare/shelfshare-go/lending"
	"github.com/shelfshare/shelfshare-go/shell"
	"github.com/shelfshare/shelfshare-go/testutil/helper"
)

func Test_Handle_UsesRequestReturnBy_AsDueDate(t *testing.T) {
	returnBy := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	request := helper.FixturePendingRequest("req-1", "item-1", "b-1", time.Now())
	request.ReturnBy = &returnBy

	procedures := &approveProceduresDouble{loan: helper.FixtureActiveLoan("loan-1", "item-1", "b-1", &returnBy, time.Now())}
	handler := approverequest.NewHandler(procedures, nil, nil, nil)

	loan, err := handler.Handle(context.Background(), approverequest.BuildCommand(request, "Ladder", "Bob", "Alice"))

	assert.NoError(t, err)
	assert.Equal(t, "loan-1", loan.ID)
	assert.Equal(t, returnBy, procedures.returnBy)
}

func Test_Handle_DefaultsDueDate_WhenRequestHasNoReturnBy(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	request := helper.FixturePendingRequest("req-1", "item-1", "b-1", now)

	procedures := &approveProceduresDouble{loan: helper.FixtureActiveLoan("loan-1", "item-1", "b-1", nil, now)}
	handler := approverequest.NewHandler(
		procedures, nil, nil, nil,
		approverequest.WithClock(func() time.Time { return now }),
	)

	_, err := handler.Handle(context.Background(), approverequest.BuildCommand(request, "Ladder", "Bob", "Alice"))

	assert.NoError(t, err)
	assert.Equal(t, now.Add(approverequest.DefaultBorrowDays*24*time.Hour), procedures.returnBy)
}

func Test_Handle_MutatesViewOptimistically_OnSuccess(t *testing.T) {
	request := helper.FixturePendingRequest("req-1", "item-1", "b-1", time.Now())
	loan := helper.FixtureActiveLoan("loan-1", "item-1", "b-1", nil, time.Now())

	procedures := &approveProceduresDouble{loan: loan}
	view := &viewSpy{}
	handler := approverequest.NewHandler(procedures, view, nil, nil)

	_, err := handler.Handle(context.Background(), approverequest.BuildCommand(request, "Ladder", "Bob", "Alice"))

	assert.NoError(t, err)
	assert.Equal(t, []string{"req-1"}, view.removedRequests)
	assert.Len(t, view.insertedLoans, 1)
	assert.Equal(t, "loan-1", view.insertedLoans[0].ID)
}

func Test_Handle_LeavesViewUntouched_OnFailure(t *testing.T) {
	request := helper.FixturePendingRequest("req-1", "item-1", "b-1", time.Now())

	procedures := &approveProceduresDouble{err: errors.New("request was already resolved")}
	view := &viewSpy{}
	scheduler := &schedulerSpy{}
	handler := approverequest.NewHandler(procedures, view, scheduler, shell.NewSynchronousRunner(nil))

	_, err := handler.Handle(context.Background(), approverequest.BuildCommand(request, "Ladder", "Bob", "Alice"))

	assert.Error(t, err)
	assert.Empty(t, view.removedRequests)
	assert.Empty(t, view.insertedLoans)
	assert.Equal(t, 0, scheduler.calls, "a failed approval must not schedule reminders")
}

func Test_Handle_SpawnsReminderScheduling_WithLoanTimeline(t *testing.T) {
	returnBy := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	request := helper.FixturePendingRequest("req-1", "item-1", "b-1", time.Now())
	request.ReturnBy = &returnBy
	loan := helper.FixtureActiveLoan("loan-1", "item-1", "b-1", &returnBy, time.Now())

	procedures := &approveProceduresDouble{loan: loan}
	scheduler := &schedulerSpy{}
	handler := approverequest.NewHandler(procedures, nil, scheduler, shell.NewSynchronousRunner(nil))

	_, err := handler.Handle(context.Background(), approverequest.BuildCommand(request, "Ladder", "Bob", "Alice"))

	assert.NoError(t, err)
	assert.Equal(t, 1, scheduler.calls)
	assert.Equal(t, "loan-1", scheduler.command.LoanID)
	assert.Equal(t, "Ladder", scheduler.command.ItemName)
	assert.Equal(t, "Bob", scheduler.command.OwnerName)
	assert.Equal(t, "Alice", scheduler.command.BorrowerName)
	assert.NotNil(t, scheduler.command.ReturnBy)
	assert.Equal(t, returnBy, *scheduler.command.ReturnBy)
}

func Test_Handle_SchedulesAgainstEffectiveDueDate_WhenLoanCarriesNone(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	request := helper.FixturePendingRequest("req-1", "item-1", "b-1", now)
	loan := helper.FixtureActiveLoan("loan-1", "item-1", "b-1", nil, now)

	procedures := &approveProceduresDouble{loan: loan}
	scheduler := &schedulerSpy{}
	handler := approverequest.NewHandler(
		procedures, nil, scheduler, shell.NewSynchronousRunner(nil),
		approverequest.WithClock(func() time.Time { return now }),
	)

	_, err := handler.Handle(context.Background(), approverequest.BuildCommand(request, "Ladder", "Bob", "Alice"))

	assert.NoError(t, err)
	assert.NotNil(t, scheduler.command.ReturnBy)
	assert.Equal(t, now.Add(approverequest.DefaultBorrowDays*24*time.Hour), *scheduler.command.ReturnBy)
}

func Test_Handle_SchedulingFailureDoesNotFailApproval(t *testing.T) {
	request := helper.FixturePendingRequest("req-1", "item-1", "b-1", time.Now())
	loan := helper.FixtureActiveLoan("loan-1", "item-1", "b-1", nil, time.Now())

	procedures := &approveProceduresDouble{loan: loan}
	scheduler := &schedulerSpy{err: errors.New("reminder persistence failed")}
	logger := helper.NewLoggerSpy()
	handler := approverequest.NewHandler(procedures, nil, scheduler, shell.NewSynchronousRunner(logger))

	returned, err := handler.Handle(context.Background(), approverequest.BuildCommand(request, "Ladder", "Bob", "Alice"))

	assert.NoError(t, err, "reminder scheduling is best-effort")
	assert.Equal(t, "loan-1", returned.ID)
	assert.True(t, logger.HasEntryContaining(helper.LogLevelWarn, "failed"))
}

/***** test doubles *****/

type approveProceduresDouble struct {
	loan      lending.Loan
	err       error
	requestID string
	returnBy  time.Time
}

func (d *approveProceduresDouble) ApproveBorrow(_ context.Context, requestID lending.RequestIDString, returnBy time.Time) (lending.Loan, error) {
	d.requestID = requestID
	d.returnBy = returnBy

	if d.err != nil {
		return lending.Loan{}, d.err
	}

	return d.loan, nil
}

type viewSpy struct {
	removedRequests []string
	insertedLoans   []lending.Loan
}

func (v *viewSpy) RemovePendingRequest(requestID lending.RequestIDString) {
	v.removedRequests = append(v.removedRequests, requestID)
}

func (v *viewSpy) InsertLoan(loan lending.Loan) {
	v.insertedLoans = append(v.insertedLoans, loan)
}

type schedulerSpy struct {
	command schedulereminders.Command
	err     error
	calls   int
}

func (s *schedulerSpy) Handle(_ context.Context, command schedulereminders.Command) (int, error) {
	s.calls++
	s.command = command

	if s.err != nil {
		return 0, s.err
	}

	return 1, nil
}
