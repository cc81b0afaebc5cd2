package rest

import (
	"context"
	"net/http"

	"github.com/hoststack/console/internal/core/domain"
	"github.com/hoststack/console/internal/core/ports"
)

// IdentityClient implements ports.IdentityAPI against the platform's
// identity endpoints. The admin scope uses its own endpoint family but
// identical shapes.
type IdentityClient struct {
	client *Client
}

// NewIdentityClient wraps the shared transport.
func NewIdentityClient(client *Client) *IdentityClient {
	return &IdentityClient{client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleAuthRequest struct {
	Credential string `json:"credential"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type resendOTPRequest struct {
	Email string `json:"email"`
}

func (c *IdentityClient) Me(ctx context.Context, scope domain.Scope, token string) (*domain.Principal, error) {
	path, endpoint := "/users/me", "me"
	if scope == domain.ScopeAdmin {
		path, endpoint = "/admin/me", "admin_me"
	}

	var principal domain.Principal
	if err := c.client.do(ctx, endpoint, http.MethodGet, path, token, nil, &principal); err != nil {
		return nil, err
	}
	return &principal, nil
}

func (c *IdentityClient) Login(ctx context.Context, scope domain.Scope, email, password string) (*domain.AuthResult, error) {
	path, endpoint := "/auth/login", "login"
	if scope == domain.ScopeAdmin {
		path, endpoint = "/admin/auth/login", "admin_login"
	}

	var result domain.AuthResult
	if err := c.client.do(ctx, endpoint, http.MethodPost, path, "", loginRequest{Email: email, Password: password}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *IdentityClient) Register(ctx context.Context, in ports.RegisterInput) (*domain.AuthResult, error) {
	var result domain.AuthResult
	req := registerRequest{Name: in.Name, Email: in.Email, Password: in.Password}
	if err := c.client.do(ctx, "register", http.MethodPost, "/auth/register", "", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *IdentityClient) GoogleAuth(ctx context.Context, credential string) (*domain.AuthResult, error) {
	var result domain.AuthResult
	if err := c.client.do(ctx, "google_auth", http.MethodPost, "/auth/google", "", googleAuthRequest{Credential: credential}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *IdentityClient) VerifyOTP(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	var result domain.AuthResult
	if err := c.client.do(ctx, "verify_otp", http.MethodPost, "/auth/verify-otp", "", verifyOTPRequest{Email: email, Code: code}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *IdentityClient) ResendOTP(ctx context.Context, email string) error {
	return c.client.do(ctx, "resend_otp", http.MethodPost, "/auth/resend-otp", "", resendOTPRequest{Email: email}, nil)
}
