// Package cli holds the console's inbound form types. Each form is
// validated locally before any network request: validation failures
// block submission entirely, matching the dashboard's pre-flight checks.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hoststack/console/internal/core/domain"
)

var validate = validator.New()

// LoginForm is the email/password login submission.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// RegisterForm is the account registration submission. ConfirmPassword
// must match Password exactly; the mismatch never reaches the server.
type RegisterForm struct {
	Name            string `validate:"required,min=2"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// OTPForm is the email-verification code submission.
type OTPForm struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,len=6,numeric"`
}

// Validate checks a form and returns a domain.ErrValidation wrapping
// one human-readable message per failed field.
func Validate(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), domain.ErrValidation)
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "numeric":
		return field + " must be digits only"
	case "eqfield":
		return "passwords do not match"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
