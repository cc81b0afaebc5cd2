package service

import (
	"net/url"

	"github.com/hoststack/console/internal/core/domain"
)

// GuardDecision is the outcome of checking a protected route.
type GuardDecision int

const (
	// GuardPending means the session is still resolving: render a
	// neutral placeholder, never the protected content or a redirect.
	GuardPending GuardDecision = iota
	// GuardAllow means the principal is signed in; render the content.
	GuardAllow
	// GuardRedirect means navigation must be sent to Location. The
	// redirect replaces the current history entry rather than pushing a
	// new one, so going back never lands on the guarded route.
	GuardRedirect
)

// GuardOutcome carries the decision and, for redirects, the login
// location with the originally requested route attached so the login
// flow can return the user where they were headed.
type GuardOutcome struct {
	Decision GuardDecision
	Location string
}

// RouteGuard gates protected views on a scope's session state.
type RouteGuard struct {
	sessions *SessionManager
}

// NewRouteGuard wraps the given session manager.
func NewRouteGuard(sessions *SessionManager) *RouteGuard {
	return &RouteGuard{sessions: sessions}
}

// Decide evaluates the guard for a navigation to route.
func (g *RouteGuard) Decide(route string) GuardOutcome {
	session := g.sessions.Session()
	switch {
	case session.IsLoading():
		return GuardOutcome{Decision: GuardPending}
	case session.IsAuthenticated():
		return GuardOutcome{Decision: GuardAllow}
	default:
		return GuardOutcome{
			Decision: GuardRedirect,
			Location: loginLocation(g.sessions.Scope(), route),
		}
	}
}

func loginLocation(scope domain.Scope, returnTo string) string {
	login := scope.LoginRoute()
	if returnTo == "" || returnTo == login {
		return login
	}
	return login + "?redirect=" + url.QueryEscape(returnTo)
}
