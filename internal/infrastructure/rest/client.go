package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hoststack/console/internal/metrics"
)

const defaultRequestTimeout = 15 * time.Second

// TokenSource supplies the bearer credential for authenticated calls.
// *service.SessionManager satisfies it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is the shared HTTP transport for the platform API: base URL
// joining, JSON encoding, bearer injection, per-request IDs, and the
// status→sentinel error mapping in errors.go.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a Client for the given API base URL. A timeout <= 0
// selects the default per-request bound.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Health probes the platform's liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, "/health", "", nil, nil)
}

// do issues one request. endpoint is the logical name used for metrics
// and logs; token, when non-empty, is attached as a bearer credential.
// A nil out discards the response body.
func (c *Client) do(ctx context.Context, endpoint, method, path, token string, body, out any) error {
	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", endpoint, err)
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		c.log.Debug().Err(err).Str("endpoint", endpoint).Msg("api request failed")
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	metrics.APIRequestsTotal.WithLabelValues(endpoint, statusClass(resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: %w", endpoint, decodeError(resp))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", endpoint, err)
	}
	return nil
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}
