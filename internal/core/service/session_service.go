package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hoststack/console/internal/core/domain"
	"github.com/hoststack/console/internal/core/ports"
	"github.com/hoststack/console/internal/metrics"
)

const defaultResolveTimeout = 10 * time.Second

// SessionManager owns the session lifecycle for one scope. The user and
// admin consoles each construct their own manager; the two share no
// state and may both be authenticated at the same time.
//
// State starts as Loading and stays there until Resolve has run. SetAuth
// and Logout are synchronous: callers may navigate immediately after.
type SessionManager struct {
	scope          domain.Scope
	store          ports.TokenStore
	identity       ports.IdentityAPI
	resolveTimeout time.Duration
	log            zerolog.Logger

	mu      sync.Mutex
	session domain.Session
}

// NewSessionManager creates a manager in the Loading state. A
// resolveTimeout <= 0 selects the default bound on the bootstrap call,
// so a hung identity service cannot pin the session in Loading forever.
func NewSessionManager(scope domain.Scope, store ports.TokenStore, identity ports.IdentityAPI, resolveTimeout time.Duration, log zerolog.Logger) *SessionManager {
	if resolveTimeout <= 0 {
		resolveTimeout = defaultResolveTimeout
	}
	return &SessionManager{
		scope:          scope,
		store:          store,
		identity:       identity,
		resolveTimeout: resolveTimeout,
		log:            log.With().Str("scope", string(scope)).Logger(),
		session:        domain.Session{Status: domain.SessionLoading},
	}
}

// Scope returns the principal type this manager serves.
func (m *SessionManager) Scope() domain.Scope { return m.scope }

// Resolve runs the one-shot bootstrap check: exchange the stored
// credential, if any, for the current principal.
//
// No credential → Unauthenticated without touching the network. A
// credential the server rejects — or any transport failure — is treated
// as permanently invalid: it is purged from the store and the session
// becomes Unauthenticated. There is no retry; the check is idempotent
// and re-running the manager repeats it safely.
func (m *SessionManager) Resolve(ctx context.Context) domain.Session {
	token, err := m.store.Get(ctx, m.scope)
	if err != nil {
		m.log.Debug().Msg("no stored credential")
		metrics.SessionBootstrapTotal.WithLabelValues(string(m.scope), "no_credential").Inc()
		return m.transition(domain.Session{Status: domain.SessionUnauthenticated})
	}

	resolveCtx, cancel := context.WithTimeout(ctx, m.resolveTimeout)
	defer cancel()

	principal, err := m.identity.Me(resolveCtx, m.scope, token)
	if err != nil {
		// Purge first so a crash between the two steps still leaves
		// the store consistent with the unauthenticated state.
		if clearErr := m.store.Clear(ctx, m.scope); clearErr != nil {
			m.log.Error().Err(clearErr).Msg("failed to purge rejected credential")
		}
		m.log.Info().Err(err).Msg("stored credential rejected, purged")
		metrics.SessionBootstrapTotal.WithLabelValues(string(m.scope), "rejected").Inc()
		return m.transition(domain.Session{Status: domain.SessionUnauthenticated})
	}

	m.log.Debug().Str("principal_id", principal.ID).Msg("session resolved")
	metrics.SessionBootstrapTotal.WithLabelValues(string(m.scope), "authenticated").Inc()
	return m.transition(domain.Session{Status: domain.SessionAuthenticated, Principal: principal})
}

// SetAuth installs a freshly issued credential and principal, as
// returned by login, registration or OTP verification. The token is
// persisted and the session flips to Authenticated before SetAuth
// returns.
func (m *SessionManager) SetAuth(token string, principal *domain.Principal) {
	if err := m.store.Set(context.Background(), m.scope, token); err != nil {
		// Keep the in-memory session usable; the next bootstrap will
		// simply come up unauthenticated.
		m.log.Error().Err(err).Msg("failed to persist credential")
	}
	m.transition(domain.Session{Status: domain.SessionAuthenticated, Principal: principal})
}

// Logout purges the credential and principal. Purely local: server-side
// revocation is not part of the protocol. Idempotent.
func (m *SessionManager) Logout() {
	if err := m.store.Clear(context.Background(), m.scope); err != nil {
		m.log.Error().Err(err).Msg("failed to clear credential")
	}
	m.transition(domain.Session{Status: domain.SessionUnauthenticated})
}

// Session returns a copy of the current session state.
func (m *SessionManager) Session() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// IsAuthenticated reports whether a principal is currently signed in.
func (m *SessionManager) IsAuthenticated() bool {
	return m.Session().IsAuthenticated()
}

// Principal returns the signed-in principal, or nil.
func (m *SessionManager) Principal() *domain.Principal {
	return m.Session().Principal
}

// Token returns the stored credential for authenticated API calls, or
// domain.ErrNoCredential when signed out.
func (m *SessionManager) Token(ctx context.Context) (string, error) {
	return m.store.Get(ctx, m.scope)
}

// transition swaps the session state. Last write wins: a SetAuth racing
// the tail of Resolve overwrites it, which matches the intended
// login-during-bootstrap behavior.
func (m *SessionManager) transition(next domain.Session) domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = next
	return next
}
