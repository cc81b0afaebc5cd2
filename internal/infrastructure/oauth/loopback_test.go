package oauth

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func startTestListener(t *testing.T) *Listener {
	t.Helper()
	l, err := NewListener(zerolog.Nop())
	if err != nil {
		t.Fatalf("new listener: %v", err)
	}
	l.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		l.Shutdown(ctx)
	})
	return l
}

func TestListener_CapturesCredential(t *testing.T) {
	l := startTestListener(t)

	resp, err := http.Get(l.CallbackURL() + "?credential=google-jwt")
	if err != nil {
		t.Fatalf("callback request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	credential, err := l.Wait(ctx)
	if err != nil || credential != "google-jwt" {
		t.Fatalf("wait: credential=%q err=%v", credential, err)
	}
}

func TestListener_AcceptsFormPost(t *testing.T) {
	l := startTestListener(t)

	form := url.Values{"credential": {"posted-jwt"}}
	resp, err := http.Post(l.CallbackURL(), "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if credential, err := l.Wait(ctx); err != nil || credential != "posted-jwt" {
		t.Fatalf("wait: credential=%q err=%v", credential, err)
	}
}

func TestListener_RejectsEmptyCredential(t *testing.T) {
	l := startTestListener(t)

	resp, err := http.Get(l.CallbackURL())
	if err != nil {
		t.Fatalf("callback request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing credential, got %d", resp.StatusCode)
	}
}

func TestListener_WaitHonoursCancellation(t *testing.T) {
	l := startTestListener(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Wait(ctx); err == nil {
		t.Fatalf("expected context error when no credential arrives")
	}
}
