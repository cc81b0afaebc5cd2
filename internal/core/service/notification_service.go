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

const (
	defaultPollInterval = 30 * time.Second
	defaultRecentLimit  = 10
)

// NotificationSnapshot is a point-in-time copy of the cached feed.
type NotificationSnapshot struct {
	Items       []domain.Notification
	UnreadCount int
	Loading     bool
	Err         error
}

// NotificationCenter caches a recent window of the signed-in user's
// notifications plus the unread counter that drives the bell badge.
//
// Server responses are authoritative and replace the cache wholesale.
// Mutations (mark-read, mark-all-read, delete) are optimistic: the local
// cache and counter update before the server call, and a server failure
// is surfaced but not rolled back — the next poll restores server truth.
// A poll landing while a mutation is in flight can therefore transiently
// revert it; that window is part of the contract, so no merge with
// pending mutations is attempted.
type NotificationCenter struct {
	api ports.NotificationAPI
	log zerolog.Logger

	mu     sync.Mutex
	closed bool
	state  NotificationSnapshot

	onUpdate func(NotificationSnapshot)
}

// NewNotificationCenter creates an empty center. onUpdate, if non-nil,
// is invoked (outside the lock) after every state change.
func NewNotificationCenter(api ports.NotificationAPI, log zerolog.Logger, onUpdate func(NotificationSnapshot)) *NotificationCenter {
	return &NotificationCenter{api: api, log: log, onUpdate: onUpdate}
}

// Snapshot returns a copy of the cached state. The items slice is
// cloned so callers can hold it across later mutations.
func (c *NotificationCenter) Snapshot() NotificationSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *NotificationCenter) snapshotLocked() NotificationSnapshot {
	out := c.state
	out.Items = make([]domain.Notification, len(c.state.Items))
	copy(out.Items, c.state.Items)
	return out
}

// FetchRecent replaces the cache from the server's recent feed.
func (c *NotificationCenter) FetchRecent(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	c.setLoading(true)
	items, unread, err := c.api.Recent(ctx, limit)
	if err != nil {
		metrics.NotificationPollTotal.WithLabelValues("error").Inc()
		c.setError(err)
		return err
	}

	metrics.NotificationPollTotal.WithLabelValues("ok").Inc()
	c.replace(items, unread)
	return nil
}

// FetchPage loads one page of the full history for the notifications
// view. Like FetchRecent it replaces the cache wholesale.
func (c *NotificationCenter) FetchPage(ctx context.Context, params domain.ListParams) (*domain.NotificationPage, error) {
	c.setLoading(true)
	page, err := c.api.List(ctx, params)
	if err != nil {
		c.setError(err)
		return nil, err
	}

	c.replace(page.Notifications, page.UnreadCount)
	return page, nil
}

// MarkAsRead optimistically marks one cached item read and decrements
// the unread counter (floored at zero) before telling the server. The
// decrement only happens if the item was cached and unread, so marking
// an already-read item is a no-op locally.
func (c *NotificationCenter) MarkAsRead(ctx context.Context, id string) error {
	c.mutate(func(s *NotificationSnapshot) {
		for i := range s.Items {
			if s.Items[i].ID == id && !s.Items[i].IsRead {
				s.Items[i].IsRead = true
				if s.UnreadCount > 0 {
					s.UnreadCount--
				}
				break
			}
		}
	})

	if err := c.api.MarkRead(ctx, id); err != nil {
		c.log.Warn().Err(err).Str("notification_id", id).Msg("mark-read not acknowledged")
		c.setError(err)
		return err
	}
	return nil
}

// MarkAllAsRead optimistically clears every unread flag and zeroes the
// counter before the server call.
func (c *NotificationCenter) MarkAllAsRead(ctx context.Context) error {
	c.mutate(func(s *NotificationSnapshot) {
		for i := range s.Items {
			s.Items[i].IsRead = true
		}
		s.UnreadCount = 0
	})

	if err := c.api.MarkAllRead(ctx); err != nil {
		c.log.Warn().Err(err).Msg("mark-all-read not acknowledged")
		c.setError(err)
		return err
	}
	return nil
}

// DeleteNotification optimistically drops the item from the cache.
// Whether the counter decrements is decided from the item's read flag
// before the mutation, never after.
func (c *NotificationCenter) DeleteNotification(ctx context.Context, id string) error {
	c.mutate(func(s *NotificationSnapshot) {
		for i := range s.Items {
			if s.Items[i].ID != id {
				continue
			}
			wasUnread := !s.Items[i].IsRead
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			if wasUnread && s.UnreadCount > 0 {
				s.UnreadCount--
			}
			break
		}
	})

	if err := c.api.Delete(ctx, id); err != nil {
		c.log.Warn().Err(err).Str("notification_id", id).Msg("delete not acknowledged")
		c.setError(err)
		return err
	}
	return nil
}

// Run polls the recent feed until ctx is cancelled: one fetch
// immediately, then one per interval (default 30s). Errors are logged
// and retained in the snapshot; polling continues regardless.
func (c *NotificationCenter) Run(ctx context.Context, interval time.Duration, limit int) {
	if interval <= 0 {
		interval = defaultPollInterval
	}

	if err := c.FetchRecent(ctx, limit); err != nil {
		c.log.Debug().Err(err).Msg("initial notification fetch failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.FetchRecent(ctx, limit); err != nil {
				c.log.Debug().Err(err).Msg("notification poll failed")
			}
		}
	}
}

// Close marks the center stopped. Late responses from requests that
// were in flight at close time are discarded instead of mutating state
// that no consumer is watching anymore. Idempotent.
func (c *NotificationCenter) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *NotificationCenter) replace(items []domain.Notification, unread int) {
	c.apply(func(s *NotificationSnapshot) {
		s.Items = items
		s.UnreadCount = unread
		s.Loading = false
		s.Err = nil
		metrics.NotificationsUnread.Set(float64(unread))
	})
}

func (c *NotificationCenter) mutate(fn func(*NotificationSnapshot)) {
	c.apply(func(s *NotificationSnapshot) {
		fn(s)
		metrics.NotificationsUnread.Set(float64(s.UnreadCount))
	})
}

func (c *NotificationCenter) setLoading(v bool) {
	c.apply(func(s *NotificationSnapshot) { s.Loading = v })
}

func (c *NotificationCenter) setError(err error) {
	c.apply(func(s *NotificationSnapshot) {
		s.Loading = false
		s.Err = err
	})
}

// apply runs fn against the live state unless the center is closed,
// then notifies the update hook with a fresh snapshot.
func (c *NotificationCenter) apply(fn func(*NotificationSnapshot)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	fn(&c.state)
	var snap NotificationSnapshot
	if c.onUpdate != nil {
		snap = c.snapshotLocked()
	}
	hook := c.onUpdate
	c.mu.Unlock()

	if hook != nil {
		hook(snap)
	}
}
