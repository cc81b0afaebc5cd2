package ports

import (
	"context"

	"github.com/hoststack/console/internal/core/domain"
)

// RegisterInput carries the fields of a registration request after
// local validation has passed.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// IdentityAPI is the remote identity service. Scope selects between the
// user and admin endpoint families; both return the same shapes.
type IdentityAPI interface {
	// Me exchanges a stored credential for the principal it belongs to.
	// Returns domain.ErrUnauthorized when the server rejects the token.
	Me(ctx context.Context, scope domain.Scope, token string) (*domain.Principal, error)

	// Login returns domain.ErrUnverified (403) for accounts that have
	// not completed OTP verification and domain.ErrUnauthorized (401)
	// for bad credentials.
	Login(ctx context.Context, scope domain.Scope, email, password string) (*domain.AuthResult, error)

	// Register returns domain.ErrConflict (409) for duplicate emails.
	Register(ctx context.Context, in RegisterInput) (*domain.AuthResult, error)

	// GoogleAuth exchanges a Google sign-in credential for a session.
	GoogleAuth(ctx context.Context, credential string) (*domain.AuthResult, error)

	VerifyOTP(ctx context.Context, email, code string) (*domain.AuthResult, error)
	ResendOTP(ctx context.Context, email string) error
}
