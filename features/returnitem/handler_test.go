package returnitem_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shelfshare/shelfshare-go/features/returnitem"
	"github.com/shelfshare/shelfshare-go/lending"
)

func Test_Handle_RefusesToRun_WithoutConfirmation(t *testing.T) {
	procedures := &returnProceduresDouble{}
	handler := returnitem.NewHandler(procedures, nil)

	err := handler.Handle(context.Background(), returnitem.BuildCommand("loan-1", false))

	assert.ErrorIs(t, err, returnitem.ErrConfirmationRequired)
	assert.Equal(t, 0, procedures.calls)
}

func Test_Handle_RemovesLoanFromView_AfterSuccess(t *testing.T) {
	procedures := &returnProceduresDouble{}
	view := &loanViewSpy{}
	handler := returnitem.NewHandler(procedures, view)

	err := handler.Handle(context.Background(), returnitem.BuildCommand("loan-1", true))

	assert.NoError(t, err)
	assert.Equal(t, 1, procedures.calls)
	assert.Equal(t, "loan-1", procedures.loanID)
	assert.Equal(t, []string{"loan-1"}, view.removed)
}

func Test_Handle_LeavesViewUntouched_OnFailure(t *testing.T) {
	procedures := &returnProceduresDouble{err: errors.New("loan is already returned")}
	view := &loanViewSpy{}
	handler := returnitem.NewHandler(procedures, view)

	err := handler.Handle(context.Background(), returnitem.BuildCommand("loan-1", true))

	assert.Error(t, err)
	assert.Empty(t, view.removed, "a failed return must leave the loan visible for retry")
}

/***** test doubles *****/

type returnProceduresDouble struct {
	err    error
	calls  int
	loanID string
}

func (d *returnProceduresDouble) ReturnItem(_ context.Context, loanID lending.LoanIDString) error {
	d.calls++
	d.loanID = loanID

	return d.err
}

type loanViewSpy struct {
	removed []string
}

func (v *loanViewSpy) RemoveLoan(loanID lending.LoanIDString) {
	v.removed = append(v.removed, loanID)
}
