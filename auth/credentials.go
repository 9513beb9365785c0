package auth

import (
	"sync"
)

// TokenSource yields the bearer token attached to outgoing calls.
// Invalidate clears the stored credentials and broadcasts the
// session-expired signal to every registered watcher.
type TokenSource interface {
	Token() (token string, present bool)
	Invalidate()
}

// SessionWatcher receives the session-expired signal.
type SessionWatcher func()

// Credentials is an in-memory TokenSource.
// It is safe for concurrent use.
type Credentials struct {
	mu       sync.Mutex
	token    string
	watchers []SessionWatcher
}

// NewCredentials creates Credentials, optionally seeded with a token.
func NewCredentials(token string) *Credentials {
	return &Credentials{token: token}
}

// Token returns the current bearer token and whether one is present.
func (c *Credentials) Token() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.token, c.token != ""
}

// SetToken stores a new bearer token, e.g. after a fresh login.
func (c *Credentials) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
}

// OnSessionExpired registers a watcher for the session-expired signal.
// Watchers are called synchronously, in registration order.
func (c *Credentials) OnSessionExpired(watcher SessionWatcher) {
	if watcher == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.watchers = append(c.watchers, watcher)
}

// Invalidate clears the stored token and notifies all watchers.
// Invalidating an already empty session is a no-op, so concurrent 401s
// produce a single logout signal.
func (c *Credentials) Invalidate() {
	c.mu.Lock()

	if c.token == "" {
		c.mu.Unlock()
		return
	}

	c.token = ""
	watchers := make([]SessionWatcher, len(c.watchers))
	copy(watchers, c.watchers)
	c.mu.Unlock()

	// Outside the lock: a watcher may call back into Credentials.
	for _, watcher := range watchers {
		watcher()
	}
}
