package domain

import "time"

// Scope identifies which kind of principal a credential or session
// belongs to. User and admin sessions are fully independent: each has
// its own token slot, its own session manager, and its own login route.
type Scope string

const (
	ScopeUser  Scope = "user"
	ScopeAdmin Scope = "admin"
)

// TokenSlot returns the durable-store key for this scope's credential.
func (s Scope) TokenSlot() string {
	if s == ScopeAdmin {
		return "admin_token"
	}
	return "token"
}

// LoginRoute returns the route unauthenticated navigation is sent to.
func (s Scope) LoginRoute() string {
	if s == ScopeAdmin {
		return "/admin/login"
	}
	return "/login"
}

// Principal is a server-asserted identity record. It lives only in
// memory for the duration of a session; the credential is the only
// thing persisted client-side.
type Principal struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// AuthResult is what the identity API returns from login, registration
// and OTP verification: a bearer token plus the principal it encodes.
type AuthResult struct {
	Token     string     `json:"token"`
	Principal *Principal `json:"user"`
}
