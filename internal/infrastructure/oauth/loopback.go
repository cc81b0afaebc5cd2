// Package oauth implements the loopback half of the Google sign-in
// flow: a short-lived localhost HTTP listener that captures the signed
// credential the browser posts back after the user consents.
package oauth

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Listener is a one-shot callback receiver. Start it, direct the
// browser at CallbackURL, then Wait for the credential.
type Listener struct {
	e           *echo.Echo
	ln          net.Listener
	log         zerolog.Logger
	credentials chan string
}

// NewListener binds an ephemeral port on the loopback interface.
func NewListener(log zerolog.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("bind loopback: %w", err)
	}

	l := &Listener{
		e:           echo.New(),
		ln:          ln,
		log:         log,
		credentials: make(chan string, 1),
	}
	l.e.HideBanner = true
	l.e.HidePort = true
	l.e.Use(echomiddleware.Recover())
	l.e.GET("/callback", l.handleCallback)
	l.e.POST("/callback", l.handleCallback)
	return l, nil
}

// CallbackURL is the redirect target to hand to the identity provider.
func (l *Listener) CallbackURL() string {
	return fmt.Sprintf("http://%s/callback", l.ln.Addr().String())
}

// Start serves the listener until Shutdown.
func (l *Listener) Start() {
	l.e.Listener = l.ln
	go func() {
		if err := l.e.Start(""); err != nil && err != http.ErrServerClosed {
			l.log.Error().Err(err).Msg("loopback listener stopped")
		}
	}()
}

// Wait blocks until a credential arrives or ctx is cancelled.
func (l *Listener) Wait(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case credential := <-l.credentials:
		return credential, nil
	}
}

// Shutdown stops the listener. Safe to call after a successful Wait.
func (l *Listener) Shutdown(ctx context.Context) {
	if err := l.e.Shutdown(ctx); err != nil {
		l.log.Debug().Err(err).Msg("loopback shutdown")
	}
}

func (l *Listener) handleCallback(c echo.Context) error {
	credential := c.QueryParam("credential")
	if credential == "" {
		credential = c.FormValue("credential")
	}
	if credential == "" {
		return c.String(http.StatusBadRequest, "missing credential")
	}

	// Only the first credential counts; duplicates from refreshes are
	// acknowledged but dropped.
	select {
	case l.credentials <- credential:
	default:
	}
	return c.String(http.StatusOK, "Signed in. You can close this tab and return to the console.")
}
