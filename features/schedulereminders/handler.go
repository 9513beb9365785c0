package schedulereminders

import (
	"context"
	"time"

	"github.com/shelfshare/shelfshare-go/lending"
	"github.com/shelfshare/shelfshare-go/recordstore"
)

// RecordStore defines the interface needed by the Handler to persist reminders.
type RecordStore interface {
	Create(ctx context.Context, table string, dataJSON []byte) (recordstore.Record, error)
}

// Handler persists the planned reminder sequence for a loan.
type Handler struct {
	store RecordStore
	clock func() time.Time
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
func NewHandler(store RecordStore, opts ...Option) Handler {
	handler := Handler{
		store: store,
		clock: time.Now,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle plans the reminder sequence and persists each reminder
// individually. It returns the count actually persisted - callers may use
// it for logging/verification but never for control flow. Persistence
// errors propagate; partial writes are not rolled back.
func (h Handler) Handle(ctx context.Context, command Command) (int, error) {
	reminders := Plan(command, h.clock())

	persisted := 0
	for _, reminder := range reminders {
		record, err := recordstore.RecordFrom(lending.TableReminders, "", reminder)
		if err != nil {
			return persisted, err
		}

		if _, err = h.store.Create(ctx, lending.TableReminders, record.DataJSON); err != nil {
			return persisted, err
		}

		persisted++
	}

	return persisted, nil
}
