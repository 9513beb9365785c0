package lending

// Item status values as the server reports them.
const (
	ItemStatusAvailable   = "available"
	ItemStatusBorrowed    = "borrowed"
	ItemStatusUnavailable = "unavailable"
)

// Item is a lendable object owned by a library.
// Status is derived on the server; clients only react to it.
type Item struct {
	ID            ItemIDString `json:"id"`
	LibraryID     string       `json:"library_id"`
	Name          string       `json:"name"`
	Status        string       `json:"status"`
	MaxBorrowDays int          `json:"max_borrow_days,omitempty"`
}

// IsAvailable reports whether the item can currently be requested.
func (i Item) IsAvailable() bool {
	return i.Status == ItemStatusAvailable
}
