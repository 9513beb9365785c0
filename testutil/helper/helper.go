package helper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/shelfshare/shelfshare-go/lending"
)

func GivenUniqueID(t testing.TB) string {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return id.String()
}

func FixtureAvailableItem(itemID string, name string) lending.Item {
	return lending.Item{
		ID:        itemID,
		LibraryID: "lib-1",
		Name:      name,
		Status:    lending.ItemStatusAvailable,
	}
}

func FixtureBorrowedItem(itemID string, name string) lending.Item {
	return lending.Item{
		ID:        itemID,
		LibraryID: "lib-1",
		Name:      name,
		Status:    lending.ItemStatusBorrowed,
	}
}

func FixtureBorrower(borrowerID string, phone string, name string) lending.Borrower {
	return lending.Borrower{
		ID:    borrowerID,
		Phone: phone,
		Name:  name,
	}
}

func FixturePendingRequest(requestID string, itemID string, borrowerID string, created time.Time) lending.BorrowRequest {
	return lending.BorrowRequest{
		ID:         requestID,
		ItemID:     itemID,
		BorrowerID: borrowerID,
		Status:     lending.RequestStatusPending,
		Created:    lending.ToTimestamp(created),
	}
}

func FixtureActiveLoan(loanID string, itemID string, borrowerID string, returnBy *time.Time, created time.Time) lending.Loan {
	return lending.Loan{
		ID:         loanID,
		ItemID:     itemID,
		BorrowerID: borrowerID,
		ReturnBy:   returnBy,
		Status:     lending.LoanStatusActive,
		Created:    lending.ToTimestamp(created),
	}
}

func FixtureLateLoan(loanID string, itemID string, borrowerID string, returnBy *time.Time, created time.Time) lending.Loan {
	loan := FixtureActiveLoan(loanID, itemID, borrowerID, returnBy, created)
	loan.Status = lending.LoanStatusLate

	return loan
}
