package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hoststack/console/internal/core/domain"
)

// NotificationClient implements ports.NotificationAPI. Every call is
// authenticated with the user-scope credential from the TokenSource.
type NotificationClient struct {
	client *Client
	tokens TokenSource
}

// NewNotificationClient wraps the shared transport.
func NewNotificationClient(client *Client, tokens TokenSource) *NotificationClient {
	return &NotificationClient{client: client, tokens: tokens}
}

type recentResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

func (c *NotificationClient) Recent(ctx context.Context, limit int) ([]domain.Notification, int, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("notifications_recent: %w", err)
	}

	var resp recentResponse
	path := "/notifications/recent?limit=" + strconv.Itoa(limit)
	if err := c.client.do(ctx, "notifications_recent", http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Notifications, resp.UnreadCount, nil
}

func (c *NotificationClient) List(ctx context.Context, params domain.ListParams) (*domain.NotificationPage, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("notifications_list: %w", err)
	}

	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(params.PerPage))
	}
	if params.UnreadOnly {
		query.Set("unread", "true")
	}
	path := "/notifications"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page domain.NotificationPage
	if err := c.client.do(ctx, "notifications_list", http.MethodGet, path, token, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *NotificationClient) MarkRead(ctx context.Context, id string) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("notifications_mark_read: %w", err)
	}
	return c.client.do(ctx, "notifications_mark_read", http.MethodPatch, "/notifications/"+id+"/read", token, nil, nil)
}

func (c *NotificationClient) MarkAllRead(ctx context.Context) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("notifications_mark_all_read: %w", err)
	}
	return c.client.do(ctx, "notifications_mark_all_read", http.MethodPatch, "/notifications/read-all", token, nil, nil)
}

func (c *NotificationClient) Delete(ctx context.Context, id string) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("notifications_delete: %w", err)
	}
	return c.client.do(ctx, "notifications_delete", http.MethodDelete, "/notifications/"+id, token, nil, nil)
}
