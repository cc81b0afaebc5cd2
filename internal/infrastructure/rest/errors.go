package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hoststack/console/internal/core/domain"
)

// errorResponse is the platform's canonical error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// decodeError turns a non-2xx response into a domain sentinel wrapped
// with the server's message, so callers branch with errors.Is and still
// see what the server said.
func decodeError(resp *http.Response) error {
	msg := serverMessage(resp)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return wrap(msg, domain.ErrUnauthorized)
	case http.StatusForbidden:
		return wrap(msg, domain.ErrUnverified)
	case http.StatusNotFound:
		return wrap(msg, domain.ErrNotFound)
	case http.StatusConflict:
		return wrap(msg, domain.ErrConflict)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return wrap(msg, domain.ErrValidation)
	}
	return fmt.Errorf("server error (status %d): %s", resp.StatusCode, msg)
}

func wrap(msg string, sentinel error) error {
	if msg == "" {
		return sentinel
	}
	return fmt.Errorf("%s: %w", msg, sentinel)
}

func serverMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return ""
	}
	var envelope errorResponse
	if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
		return envelope.Error
	}
	return ""
}
