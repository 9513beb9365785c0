package observer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shelfshare/shelfshare-go/lending"
	"github.com/shelfshare/shelfshare-go/observer"
	"github.com/shelfshare/shelfshare-go/realtime"
	"github.com/shelfshare/shelfshare-go/recordstore"
	"github.com/shelfshare/shelfshare-go/testutil/helper"
	"github.com/shelfshare/shelfshare-go/testutil/storedouble"
)

func Test_NewView_ValidatesInput(t *testing.T) {
	t.Run("nil_store", func(t *testing.T) {
		_, err := observer.NewView(observer.DashboardScope("lib-1"), nil, realtime.NewHub())

		assert.ErrorIs(t, err, observer.ErrNilStoreSupplied)
	})

	t.Run("nil_channel", func(t *testing.T) {
		_, err := observer.NewView(observer.DashboardScope("lib-1"), storedouble.NewFakeStore(), nil)

		assert.ErrorIs(t, err, observer.ErrNilChannelSupplied)
	})
}

func Test_View_Start_HydratesCollections(t *testing.T) {
	store := storedouble.NewFakeStore()
	hub := realtime.NewHub()
	now := time.Now()

	store.Seed(t, lending.TableBorrowRequests, "req-1", helper.FixturePendingRequest("req-1", "item-1", "b-1", now))
	declined := helper.FixturePendingRequest("req-2", "item-2", "b-1", now)
	declined.Status = lending.RequestStatusDeclined
	store.Seed(t, lending.TableBorrowRequests, "req-2", declined)
	store.Seed(t, lending.TableLoans, "loan-1", helper.FixtureActiveLoan("loan-1", "item-1", "b-1", nil, now))
	store.Seed(t, lending.TableLoans, "loan-2", helper.FixtureLateLoan("loan-2", "item-2", "b-2", nil, now))
	store.Seed(t, lending.TableItems, "item-1", helper.FixtureAvailableItem("item-1", "Ladder"))
	store.Seed(t, lending.TableBorrowers, "b-1", helper.FixtureBorrower("b-1", "+15551234567", "Alice"))

	t.Run("dashboard_scope_skips_resolved", func(t *testing.T) {
		view, err := observer.NewView(observer.DashboardScope("lib-1"), store, hub)
		assert.NoError(t, err)
		defer view.Close()

		assert.NoError(t, view.Start(context.Background()))

		assert.Equal(t, 1, view.PendingCount())
		assert.Empty(t, view.ResolvedRequests())
		assert.Len(t, view.OpenLoans(), 2)
	})

	t.Run("notifications_scope_tracks_resolved", func(t *testing.T) {
		view, err := observer.NewView(observer.NotificationsScope("lib-1"), store, hub)
		assert.NoError(t, err)
		defer view.Close()

		assert.NoError(t, view.Start(context.Background()))

		assert.Len(t, view.ResolvedRequests(), 1)
		assert.Equal(t, lending.RequestStatusDeclined, view.ResolvedRequests()[0].Status)
	})

	t.Run("bell_scope_derives_overdue_from_open_loans", func(t *testing.T) {
		view, err := observer.NewView(observer.BellScope("lib-1"), store, hub)
		assert.NoError(t, err)
		defer view.Close()

		assert.NoError(t, view.Start(context.Background()))

		assert.Equal(t, 1, view.OverdueCount())
		assert.Len(t, view.OverdueLoans(), 1)
		assert.Equal(t, "loan-2", view.OverdueLoans()[0].ID)
		assert.Len(t, view.OpenLoans(), 2, "overdue alerts are a filtered view of the open loans")
	})
}

func Test_View_Start_ReturnsHydrationFailure(t *testing.T) {
	store := storedouble.NewFakeStore()
	store.FailListWith(recordstore.ErrQueryingRecordsFailed)

	view, err := observer.NewView(observer.DashboardScope("lib-1"), store, realtime.NewHub())
	assert.NoError(t, err)

	err = view.Start(context.Background())

	assert.ErrorIs(t, err, recordstore.ErrQueryingRecordsFailed)
}

func Test_View_Start_ToleratesSubscribeFailure(t *testing.T) {
	store := storedouble.NewFakeStore()
	logger := helper.NewLoggerSpy()

	view, err := observer.NewView(observer.DashboardScope("lib-1"), store, failingSubscriber{}, observer.WithLogger(logger))
	assert.NoError(t, err)
	defer view.Close()

	err = view.Start(context.Background())

	assert.NoError(t, err, "a subscribe failure leaves the hydrated state usable")
	assert.True(t, logger.HasEntryContaining(helper.LogLevelWarn, "stale"))
}

func Test_View_FoldsRealtimeEvents(t *testing.T) {
	store := storedouble.NewFakeStore()
	hub := realtime.NewHub()
	now := time.Now()

	view, err := observer.NewView(observer.NotificationsScope("lib-1"), store, hub)
	assert.NoError(t, err)
	defer view.Close()
	assert.NoError(t, view.Start(context.Background()))

	request := helper.FixturePendingRequest("req-1", "item-1", "b-1", now)
	publish(t, hub, realtime.ActionCreate, lending.TableBorrowRequests, request)

	assert.Equal(t, 1, view.PendingCount())

	request.Status = lending.RequestStatusApproved
	publish(t, hub, realtime.ActionUpdate, lending.TableBorrowRequests, request)

	assert.Equal(t, 0, view.PendingCount())
	assert.Len(t, view.ResolvedRequests(), 1)

	loan := helper.FixtureActiveLoan("loan-1", "item-1", "b-1", nil, now)
	publish(t, hub, realtime.ActionCreate, lending.TableLoans, loan)

	assert.Len(t, view.OpenLoans(), 1)

	loan.Status = lending.LoanStatusReturned
	publish(t, hub, realtime.ActionUpdate, lending.TableLoans, loan)

	assert.Empty(t, view.OpenLoans())
}

func Test_View_SkipsUndecodableEvents(t *testing.T) {
	store := storedouble.NewFakeStore()
	hub := realtime.NewHub()
	logger := helper.NewLoggerSpy()

	view, err := observer.NewView(observer.DashboardScope("lib-1"), store, hub, observer.WithLogger(logger))
	assert.NoError(t, err)
	defer view.Close()
	assert.NoError(t, view.Start(context.Background()))

	record, err := recordstore.BuildRecord(lending.TableLoans, "loan-1", []byte(`"not an object"`))
	assert.NoError(t, err)

	assert.NotPanics(t, func() {
		hub.Publish(realtime.Event{Action: realtime.ActionCreate, Table: lending.TableLoans, Record: record})
	})

	assert.Empty(t, view.OpenLoans())
	assert.True(t, logger.HasEntryContaining(helper.LogLevelWarn, "skipped"))
}

func Test_View_OptimisticMutations_ConvergeWithRealtimeEcho(t *testing.T) {
	store := storedouble.NewFakeStore()
	hub := realtime.NewHub()
	now := time.Now()

	store.Seed(t, lending.TableBorrowRequests, "req-1", helper.FixturePendingRequest("req-1", "item-1", "b-1", now))

	view, err := observer.NewView(observer.NotificationsScope("lib-1"), store, hub)
	assert.NoError(t, err)
	defer view.Close()
	assert.NoError(t, view.Start(context.Background()))

	// Approve: the handler removes the pending request and inserts the loan
	// optimistically, then the realtime echo of both transitions arrives.
	loan := helper.FixtureActiveLoan("loan-1", "item-1", "b-1", nil, now)
	view.RemovePendingRequest("req-1")
	view.InsertLoan(loan)

	approved := helper.FixturePendingRequest("req-1", "item-1", "b-1", now)
	approved.Status = lending.RequestStatusApproved
	publish(t, hub, realtime.ActionUpdate, lending.TableBorrowRequests, approved)
	publish(t, hub, realtime.ActionCreate, lending.TableLoans, loan)

	assert.Equal(t, 0, view.PendingCount())
	assert.Len(t, view.OpenLoans(), 1)
	assert.Len(t, view.ResolvedRequests(), 1)

	// Return: optimistic removal, then the echo.
	view.RemoveLoan(loan.ID)
	returned := loan
	returned.Status = lending.LoanStatusReturned
	publish(t, hub, realtime.ActionUpdate, lending.TableLoans, returned)

	assert.Empty(t, view.OpenLoans())
}

func Test_View_ScopesToLibrary(t *testing.T) {
	store := storedouble.NewFakeStore()
	hub := realtime.NewHub()
	now := time.Now()

	otherItem := helper.FixtureAvailableItem("item-far", "Canoe")
	otherItem.LibraryID = "lib-2"
	store.Seed(t, lending.TableItems, "item-1", helper.FixtureAvailableItem("item-1", "Ladder"))
	store.Seed(t, lending.TableItems, "item-far", otherItem)
	store.Seed(t, lending.TableBorrowRequests, "req-1", helper.FixturePendingRequest("req-1", "item-1", "b-1", now))
	store.Seed(t, lending.TableBorrowRequests, "req-far", helper.FixturePendingRequest("req-far", "item-far", "b-2", now))
	store.Seed(t, lending.TableLoans, "loan-far", helper.FixtureActiveLoan("loan-far", "item-far", "b-2", nil, now))

	view, err := observer.NewView(observer.DashboardScope("lib-1"), store, hub)
	assert.NoError(t, err)
	defer view.Close()
	assert.NoError(t, view.Start(context.Background()))

	t.Run("hydration_excludes_other_libraries", func(t *testing.T) {
		assert.Equal(t, 1, view.PendingCount())
		assert.Equal(t, "req-1", view.PendingRequests()[0].ID)
		assert.Empty(t, view.OpenLoans())
	})

	t.Run("events_for_other_libraries_are_ignored", func(t *testing.T) {
		publish(t, hub, realtime.ActionCreate, lending.TableBorrowRequests,
			helper.FixturePendingRequest("req-far-2", "item-far", "b-2", now))
		publish(t, hub, realtime.ActionCreate, lending.TableLoans,
			helper.FixtureActiveLoan("loan-far-2", "item-far", "b-2", nil, now))

		assert.Equal(t, 1, view.PendingCount())
		assert.Empty(t, view.OpenLoans())
	})

	t.Run("records_for_unhydrated_items_are_kept", func(t *testing.T) {
		publish(t, hub, realtime.ActionCreate, lending.TableBorrowRequests,
			helper.FixturePendingRequest("req-new", "item-unseen", "b-3", now))

		assert.Equal(t, 2, view.PendingCount())
		assert.Equal(t, observer.UnknownItemLabel, view.ItemName("item-unseen"))
	})
}

func Test_View_SnapshotsAreSortedOldestFirst(t *testing.T) {
	store := storedouble.NewFakeStore()
	hub := realtime.NewHub()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store.Seed(t, lending.TableBorrowRequests, "req-newer", helper.FixturePendingRequest("req-newer", "item-1", "b-1", base.Add(time.Hour)))
	store.Seed(t, lending.TableBorrowRequests, "req-older", helper.FixturePendingRequest("req-older", "item-2", "b-1", base))

	view, err := observer.NewView(observer.DashboardScope("lib-1"), store, hub)
	assert.NoError(t, err)
	defer view.Close()
	assert.NoError(t, view.Start(context.Background()))

	pending := view.PendingRequests()
	assert.Len(t, pending, 2)
	assert.Equal(t, "req-older", pending[0].ID)
	assert.Equal(t, "req-newer", pending[1].ID)
}

func Test_View_ResolvesDisplayLabels(t *testing.T) {
	store := storedouble.NewFakeStore()
	hub := realtime.NewHub()

	store.Seed(t, lending.TableItems, "item-1", helper.FixtureAvailableItem("item-1", "Ladder"))
	store.Seed(t, lending.TableBorrowers, "b-1", helper.FixtureBorrower("b-1", "+15551234567", "Alice"))

	view, err := observer.NewView(observer.DashboardScope("lib-1"), store, hub)
	assert.NoError(t, err)
	defer view.Close()
	assert.NoError(t, view.Start(context.Background()))

	assert.Equal(t, "Ladder", view.ItemName("item-1"))
	assert.Equal(t, "Alice", view.BorrowerName("b-1"))
	assert.Equal(t, observer.UnknownItemLabel, view.ItemName("item-unknown"))
	assert.Equal(t, observer.UnknownBorrowerLabel, view.BorrowerName("b-unknown"))
}

func Test_View_Close_StopsEventDelivery(t *testing.T) {
	store := storedouble.NewFakeStore()
	hub := realtime.NewHub()

	view, err := observer.NewView(observer.DashboardScope("lib-1"), store, hub)
	assert.NoError(t, err)
	assert.NoError(t, view.Start(context.Background()))
	assert.Equal(t, 1, hub.SubscriberCount())

	view.Close()

	assert.Equal(t, 0, hub.SubscriberCount())
	publish(t, hub, realtime.ActionCreate, lending.TableBorrowRequests,
		helper.FixturePendingRequest("req-1", "item-1", "b-1", time.Now()))
	assert.Equal(t, 0, view.PendingCount())

	assert.NotPanics(t, func() { view.Close() })
}

/***** test helpers *****/

type failingSubscriber struct{}

func (failingSubscriber) Subscribe([]string, realtime.Callback) (realtime.Subscription, error) {
	return nil, realtime.ErrNoTablesSupplied
}

func publish(t testing.TB, hub *realtime.Hub, action string, table string, data any) {
	t.Helper()

	record, err := recordstore.RecordFrom(table, "", data)
	assert.NoError(t, err, "error in arranging test data")

	hub.Publish(realtime.Event{Action: action, Table: table, Record: record})
}
