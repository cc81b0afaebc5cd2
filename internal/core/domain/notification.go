package domain

import "time"

// NotificationType classifies a notification for display purposes.
type NotificationType string

const (
	NotificationOrderPlaced    NotificationType = "order_placed"
	NotificationOrderFulfilled NotificationType = "order_fulfilled"
	NotificationOrderCancelled NotificationType = "order_cancelled"
	NotificationTopupCompleted NotificationType = "topup_completed"
	NotificationLowBalance     NotificationType = "low_balance"
	NotificationSystem         NotificationType = "system"
)

// Notification is one entry in a user's notification feed. The server
// owns the record; the client caches a recent window plus an unread
// counter and applies optimistic mutations to both.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

// Pagination describes a page of the full notification history.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NotificationPage is the paginated list response from the server,
// always accompanied by the authoritative unread counter.
type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	Pagination    Pagination     `json:"pagination"`
	UnreadCount   int            `json:"unread_count"`
}

// ListParams selects a page of notification history.
type ListParams struct {
	Page       int
	PerPage    int
	UnreadOnly bool
}
