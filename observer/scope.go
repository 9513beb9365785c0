package observer

// Scope parameterizes which subset of state a view cares about.
// All scopes share the same reconciliation rules; they differ only in what
// they hydrate and expose.
type Scope struct {
	name           string
	libraryID      string
	trackResolved  bool
	trackOverdue   bool
	hydratePerPage int
}

const defaultHydratePerPage = 200

// Name identifies the scope in log output.
func (s Scope) Name() string {
	return s.name
}

// LibraryID returns the library the scope is filtered to. Empty means all
// libraries are in scope.
func (s Scope) LibraryID() string {
	return s.libraryID
}

// TracksResolved reports whether resolved requests are hydrated and exposed.
func (s Scope) TracksResolved() bool {
	return s.trackResolved
}

// TracksOverdue reports whether late loans are exposed as overdue alerts.
func (s Scope) TracksOverdue() bool {
	return s.trackOverdue
}

// DashboardScope covers the owner dashboard of one library: pending requests
// plus open loans. An empty libraryID covers all libraries.
func DashboardScope(libraryID string) Scope {
	return Scope{
		name:           "dashboard",
		libraryID:      libraryID,
		hydratePerPage: defaultHydratePerPage,
	}
}

// NotificationsScope covers the notifications page: pending requests, their
// resolutions, and open loans.
func NotificationsScope(libraryID string) Scope {
	return Scope{
		name:           "notifications",
		libraryID:      libraryID,
		trackResolved:  true,
		hydratePerPage: defaultHydratePerPage,
	}
}

// BellScope covers the notification bell: pending request alerts plus
// late loans as overdue alerts.
func BellScope(libraryID string) Scope {
	return Scope{
		name:           "bell",
		libraryID:      libraryID,
		trackOverdue:   true,
		hydratePerPage: defaultHydratePerPage,
	}
}
