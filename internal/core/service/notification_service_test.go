package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hoststack/console/internal/core/domain"
)

// stubNotificationAPI serves a fixed feed and records mutation calls.
// block, when non-nil, is closed to release an in-flight Recent call.
type stubNotificationAPI struct {
	mu          sync.Mutex
	items       []domain.Notification
	unread      int
	err         error
	recentCalls int
	readIDs     []string
	readAll     int
	deletedIDs  []string
	block       chan struct{}
}

func (s *stubNotificationAPI) Recent(ctx context.Context, _ int) ([]domain.Notification, int, error) {
	s.mu.Lock()
	s.recentCalls++
	block := s.block
	items, unread, err := s.items, s.unread, s.err
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		}
	}
	if err != nil {
		return nil, 0, err
	}
	out := make([]domain.Notification, len(items))
	copy(out, items)
	return out, unread, nil
}

func (s *stubNotificationAPI) List(_ context.Context, _ domain.ListParams) (*domain.NotificationPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	items := make([]domain.Notification, len(s.items))
	copy(items, s.items)
	return &domain.NotificationPage{
		Notifications: items,
		Pagination:    domain.Pagination{Page: 1, PerPage: len(items), TotalItems: len(items), TotalPages: 1},
		UnreadCount:   s.unread,
	}, nil
}

func (s *stubNotificationAPI) MarkRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readIDs = append(s.readIDs, id)
	return s.err
}

func (s *stubNotificationAPI) MarkAllRead(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readAll++
	return s.err
}

func (s *stubNotificationAPI) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletedIDs = append(s.deletedIDs, id)
	return s.err
}

func feed() []domain.Notification {
	now := time.Now().UTC()
	return []domain.Notification{
		{ID: "n5", Type: domain.NotificationOrderPlaced, Title: "Order placed", CreatedAt: now},
		{ID: "n4", Type: domain.NotificationTopupCompleted, Title: "Top-up done", CreatedAt: now.Add(-time.Minute)},
		{ID: "n3", Type: domain.NotificationLowBalance, Title: "Low balance", CreatedAt: now.Add(-2 * time.Minute)},
		{ID: "n2", Type: domain.NotificationSystem, Title: "Maintenance", IsRead: true, CreatedAt: now.Add(-3 * time.Minute)},
		{ID: "n1", Type: domain.NotificationOrderFulfilled, Title: "Order fulfilled", IsRead: true, CreatedAt: now.Add(-4 * time.Minute)},
	}
}

func newTestCenter(api *stubNotificationAPI) *NotificationCenter {
	return NewNotificationCenter(api, zerolog.Nop(), nil)
}

func seedCenter(t *testing.T, api *stubNotificationAPI) *NotificationCenter {
	t.Helper()
	c := newTestCenter(api)
	if err := c.FetchRecent(context.Background(), 10); err != nil {
		t.Fatalf("seed fetch: %v", err)
	}
	return c
}

func TestNotificationCenter_FetchRecent_Replaces(t *testing.T) {
	api := &stubNotificationAPI{items: feed(), unread: 3}
	c := seedCenter(t, api)

	snap := c.Snapshot()
	if len(snap.Items) != 5 || snap.UnreadCount != 3 {
		t.Fatalf("unexpected snapshot: %d items, %d unread", len(snap.Items), snap.UnreadCount)
	}
	if snap.Loading || snap.Err != nil {
		t.Fatalf("expected settled snapshot, got loading=%v err=%v", snap.Loading, snap.Err)
	}

	// The next poll is authoritative even if it reverts local reads.
	_ = c.MarkAsRead(context.Background(), "n5")
	if err := c.FetchRecent(context.Background(), 10); err != nil {
		t.Fatalf("refetch: %v", err)
	}
	snap = c.Snapshot()
	if snap.UnreadCount != 3 {
		t.Fatalf("fetch must replace local state wholesale, got %d unread", snap.UnreadCount)
	}
}

func TestNotificationCenter_MarkAsRead_Optimistic(t *testing.T) {
	api := &stubNotificationAPI{items: feed(), unread: 3}
	c := seedCenter(t, api)

	if err := c.MarkAsRead(context.Background(), "n5"); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	snap := c.Snapshot()
	if snap.UnreadCount != 2 {
		t.Fatalf("expected unread 2, got %d", snap.UnreadCount)
	}
	if !snap.Items[0].IsRead {
		t.Fatalf("item n5 should be read")
	}
	if len(api.readIDs) != 1 || api.readIDs[0] != "n5" {
		t.Fatalf("server call missing: %v", api.readIDs)
	}
}

func TestNotificationCenter_MarkAsRead_AlreadyRead(t *testing.T) {
	api := &stubNotificationAPI{items: feed(), unread: 3}
	c := seedCenter(t, api)

	if err := c.MarkAsRead(context.Background(), "n2"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if got := c.Snapshot().UnreadCount; got != 3 {
		t.Fatalf("marking a read item must not change the counter, got %d", got)
	}
}

func TestNotificationCenter_MarkAsRead_FloorsAtZero(t *testing.T) {
	api := &stubNotificationAPI{
		items:  []domain.Notification{{ID: "n1"}},
		unread: 0, // server counter already drifted below the cache
	}
	c := seedCenter(t, api)

	_ = c.MarkAsRead(context.Background(), "n1")
	if got := c.Snapshot().UnreadCount; got != 0 {
		t.Fatalf("counter must floor at 0, got %d", got)
	}
}

func TestNotificationCenter_MarkAsRead_NoRollbackOnServerFailure(t *testing.T) {
	api := &stubNotificationAPI{items: feed(), unread: 3}
	c := seedCenter(t, api)

	api.mu.Lock()
	api.err = errors.New("boom")
	api.mu.Unlock()

	err := c.MarkAsRead(context.Background(), "n5")
	if err == nil {
		t.Fatalf("expected server error to surface")
	}

	// The optimistic mutation stays applied; the next poll is the only
	// thing that restores server truth.
	snap := c.Snapshot()
	if snap.UnreadCount != 2 || !snap.Items[0].IsRead {
		t.Fatalf("optimistic mutation rolled back: %+v", snap)
	}
	if snap.Err == nil {
		t.Fatalf("snapshot should retain the error")
	}
}

func TestNotificationCenter_MarkAllAsRead(t *testing.T) {
	api := &stubNotificationAPI{items: feed(), unread: 3}
	c := seedCenter(t, api)

	if err := c.MarkAllAsRead(context.Background()); err != nil {
		t.Fatalf("mark all: %v", err)
	}

	snap := c.Snapshot()
	if snap.UnreadCount != 0 {
		t.Fatalf("expected unread 0, got %d", snap.UnreadCount)
	}
	for _, n := range snap.Items {
		if !n.IsRead {
			t.Fatalf("item %s still unread", n.ID)
		}
	}
	if api.readAll != 1 {
		t.Fatalf("expected one server call, got %d", api.readAll)
	}
}

func TestNotificationCenter_Delete_ReadItemKeepsCounter(t *testing.T) {
	items := feed()[2:] // n3 unread, n2 and n1 read
	api := &stubNotificationAPI{items: items, unread: 2}
	c := seedCenter(t, api)

	if err := c.DeleteNotification(context.Background(), "n2"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	snap := c.Snapshot()
	if len(snap.Items) != 2 {
		t.Fatalf("expected 2 items after delete, got %d", len(snap.Items))
	}
	if snap.UnreadCount != 2 {
		t.Fatalf("deleting a read item must keep the counter, got %d", snap.UnreadCount)
	}
}

func TestNotificationCenter_Delete_UnreadItemDecrements(t *testing.T) {
	api := &stubNotificationAPI{items: feed(), unread: 3}
	c := seedCenter(t, api)

	if err := c.DeleteNotification(context.Background(), "n4"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	snap := c.Snapshot()
	if len(snap.Items) != 4 || snap.UnreadCount != 2 {
		t.Fatalf("expected 4 items / 2 unread, got %d/%d", len(snap.Items), snap.UnreadCount)
	}
	for _, n := range snap.Items {
		if n.ID == "n4" {
			t.Fatalf("deleted item still cached")
		}
	}
}

func TestNotificationCenter_Run_StopsOnCancel(t *testing.T) {
	api := &stubNotificationAPI{items: feed(), unread: 3}
	c := newTestCenter(api)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, 5*time.Millisecond, 10)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		api.mu.Lock()
		calls := api.recentCalls
		api.mu.Unlock()
		if calls >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("poller never ticked")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("poller did not stop on cancel")
	}

	api.mu.Lock()
	settled := api.recentCalls
	api.mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	api.mu.Lock()
	after := api.recentCalls
	api.mu.Unlock()
	if after != settled {
		t.Fatalf("poller still fetching after cancel: %d -> %d", settled, after)
	}
}

func TestNotificationCenter_LateResponseAfterClose(t *testing.T) {
	api := &stubNotificationAPI{items: feed(), unread: 3, block: make(chan struct{})}
	c := newTestCenter(api)

	fetchDone := make(chan error, 1)
	go func() {
		fetchDone <- c.FetchRecent(context.Background(), 10)
	}()

	// Wait for the request to be in flight, then close the center and
	// release the response.
	deadline := time.After(2 * time.Second)
	for {
		api.mu.Lock()
		started := api.recentCalls > 0
		api.mu.Unlock()
		if started {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("fetch never started")
		case <-time.After(time.Millisecond):
		}
	}

	c.Close()
	close(api.block)
	<-fetchDone

	snap := c.Snapshot()
	if len(snap.Items) != 0 || snap.UnreadCount != 0 {
		t.Fatalf("late response mutated a closed center: %+v", snap)
	}
}
