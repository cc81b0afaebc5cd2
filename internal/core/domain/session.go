package domain

// SessionStatus is the lifecycle state of a scope's session.
type SessionStatus string

const (
	// SessionLoading is the initial state, held until the stored
	// credential (if any) has been exchanged for a principal.
	SessionLoading SessionStatus = "loading"

	SessionUnauthenticated SessionStatus = "unauthenticated"
	SessionAuthenticated   SessionStatus = "authenticated"
)

// Session is the tri-state session value exposed to consumers.
// Principal is non-nil exactly when Status is SessionAuthenticated.
type Session struct {
	Status    SessionStatus
	Principal *Principal
}

// IsLoading reports whether the bootstrap check is still in flight.
func (s Session) IsLoading() bool { return s.Status == SessionLoading }

// IsAuthenticated reports whether a principal is signed in.
func (s Session) IsAuthenticated() bool { return s.Status == SessionAuthenticated }
