package ports

import (
	"context"

	"github.com/hoststack/console/internal/core/domain"
)

// TokenStore persists the opaque bearer credential for each scope.
// At most one credential per scope exists at a time; Set silently
// replaces any prior value and Clear is idempotent. Implementations do
// not inspect or expire tokens — expiry is the server's business,
// surfaced only as rejected requests.
type TokenStore interface {
	// Get returns the stored credential for scope, or
	// domain.ErrNoCredential when the slot is empty.
	Get(ctx context.Context, scope domain.Scope) (string, error)
	Set(ctx context.Context, scope domain.Scope, token string) error
	Clear(ctx context.Context, scope domain.Scope) error
}
