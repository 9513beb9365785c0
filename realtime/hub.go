package realtime

import (
	"sync"
)

// Hub is an in-process Subscriber with a Publish side.
// Fan-out is synchronous and preserves per-subscriber event order.
// It is safe for concurrent use.
type Hub struct {
	mu            sync.Mutex
	nextID        int
	subscriptions map[int]*hubSubscription
}

type hubSubscription struct {
	hub      *Hub
	id       int
	tables   map[string]struct{}
	callback Callback
	once     sync.Once
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		subscriptions: make(map[int]*hubSubscription),
	}
}

// Subscribe registers a callback for events on the given tables.
func (h *Hub) Subscribe(tables []string, callback Callback) (Subscription, error) {
	if len(tables) == 0 {
		return nil, ErrNoTablesSupplied
	}

	if callback == nil {
		return nil, ErrNilCallbackSupplied
	}

	tableSet := make(map[string]struct{}, len(tables))
	for _, table := range tables {
		if table != "" {
			tableSet[table] = struct{}{}
		}
	}

	if len(tableSet) == 0 {
		return nil, ErrNoTablesSupplied
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	subscription := &hubSubscription{
		hub:      h,
		id:       h.nextID,
		tables:   tableSet,
		callback: callback,
	}
	h.subscriptions[subscription.id] = subscription

	return subscription, nil
}

// Publish delivers the event to every subscription covering its table.
// Callbacks run synchronously on the publishing goroutine.
func (h *Hub) Publish(event Event) {
	h.mu.Lock()
	receivers := make([]Callback, 0, len(h.subscriptions))

	for _, subscription := range h.subscriptions {
		if _, covered := subscription.tables[event.Table]; covered {
			receivers = append(receivers, subscription.callback)
		}
	}
	h.mu.Unlock()

	for _, callback := range receivers {
		callback(event)
	}
}

// SubscriberCount returns the number of live subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subscriptions)
}

// Unsubscribe removes the subscription from the hub. Safe to call twice.
func (s *hubSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()

		delete(s.hub.subscriptions, s.id)
	})
}
