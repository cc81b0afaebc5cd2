package domain

import "errors"

// Sentinel errors shared across the client. The REST layer maps HTTP
// status codes onto these so callers can branch with errors.Is without
// ever touching transport details.
var (
	// ErrNoCredential means the token store holds nothing for the
	// requested scope. Not a failure: it is the normal signed-out state.
	ErrNoCredential = errors.New("no stored credential")

	// ErrUnauthorized is the 401 class: the credential is missing,
	// expired or revoked as far as the server is concerned.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnverified is the 403 class: the account exists and the
	// password matched, but the email has not passed OTP verification.
	// Callers route this to the verification flow, not the login form.
	ErrUnverified = errors.New("account not verified")

	// ErrConflict is the 409 class, e.g. registering an email that
	// already has an account.
	ErrConflict = errors.New("already exists")

	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)
