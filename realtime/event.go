package realtime

import (
	"errors"

	"github.com/shelfshare/shelfshare-go/recordstore"
)

// Actions a change event can carry.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

var ErrNoTablesSupplied = errors.New("no tables supplied")
var ErrNilCallbackSupplied = errors.New("nil callback supplied")

// Event is one server-pushed change notification.
// Record carries the full post-change state of the affected record.
type Event struct {
	Action string
	Table  string
	Record recordstore.Record
}

// Callback receives events for the tables a subscription covers.
type Callback func(event Event)

// Subscription is a live, long-lived subscription.
// Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

// Subscriber is the contract of the realtime channel.
type Subscriber interface {
	Subscribe(tables []string, callback Callback) (Subscription, error)
}
