package ports

import (
	"context"

	"github.com/hoststack/console/internal/core/domain"
)

// NotificationAPI is the remote notification service for the signed-in
// user. Recent feeds the always-visible bell indicator; List serves the
// dedicated notifications view. Both responses are authoritative and
// replace local state wholesale.
type NotificationAPI interface {
	Recent(ctx context.Context, limit int) ([]domain.Notification, int, error)
	List(ctx context.Context, params domain.ListParams) (*domain.NotificationPage, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}
