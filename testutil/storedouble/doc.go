// Package storedouble provides an in-memory, filter-aware implementation of
// recordstore.Store for testing, with call tracking and error injection.
package storedouble
