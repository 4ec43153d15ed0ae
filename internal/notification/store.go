package notification

import (
	"context"

	"github.com/atelierprint/printshop-service/internal/model"
)

// Store is the notification log shared across roles. It is constructed once
// in main and injected; there is no package-level instance.
type Store interface {
	Add(ctx context.Context, shopID string, typ model.NotificationType, meta model.NotificationMeta, fromRole, toRole string) (*model.Notification, error)

	MarkAsRead(ctx context.Context, shopID, id string) error
	MarkAllAsRead(ctx context.Context, shopID, toRole string) error
	Delete(ctx context.Context, shopID, id string) error
	ClearAll(ctx context.Context, shopID string) error

	// Queries return notifications most-recent-first.
	List(ctx context.Context, shopID string, limit int) ([]model.Notification, error)
	UnreadByRole(ctx context.Context, shopID, toRole string) ([]model.Notification, error)
	ByType(ctx context.Context, shopID string, typ model.NotificationType) ([]model.Notification, error)
	ByOrderID(ctx context.Context, shopID, orderID string) ([]model.Notification, error)
}

type Repository interface {
	Create(ctx context.Context, n *model.Notification) error
	MarkRead(ctx context.Context, shopID, id string) error
	MarkAllRead(ctx context.Context, shopID, toRole string) error
	Delete(ctx context.Context, shopID, id string) error
	DeleteAll(ctx context.Context, shopID string) error

	FindAll(ctx context.Context, shopID string, limit int) ([]model.Notification, error)
	FindUnreadByRole(ctx context.Context, shopID, toRole string) ([]model.Notification, error)
	FindByType(ctx context.Context, shopID string, typ model.NotificationType) ([]model.Notification, error)
	FindByOrder(ctx context.Context, shopID, orderID string) ([]model.Notification, error)
}
