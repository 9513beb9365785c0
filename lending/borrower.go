package lending

// Borrower is an unauthenticated person identified by phone number.
// Borrowers are created lazily on first request; the phone number is the
// stable identity, names are allowed to drift.
type Borrower struct {
	ID    BorrowerIDString `json:"id"`
	Phone PhoneString      `json:"phone"`
	Name  string           `json:"name"`
}

// BuildBorrower creates a new Borrower without a server-assigned id.
func BuildBorrower(phone PhoneString, name string) Borrower {
	return Borrower{
		Phone: phone,
		Name:  name,
	}
}
