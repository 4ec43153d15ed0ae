package usecase

import (
	"context"
	"time"

	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/atelierprint/printshop-service/internal/notification"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type notificationStore struct {
	repo   notification.Repository
	logger logger.ZapLogger
}

func NewNotificationStore(repo notification.Repository, log logger.ZapLogger) notification.Store {
	return &notificationStore{
		repo:   repo,
		logger: log,
	}
}

func (s *notificationStore) Add(ctx context.Context, shopID string, typ model.NotificationType, meta model.NotificationMeta, fromRole, toRole string) (*model.Notification, error) {
	title, description := notification.Render(typ, meta)

	n := &model.Notification{
		ID:          uuid.New().String(),
		ShopID:      shopID,
		Type:        typ,
		Title:       title,
		Description: description,
		FromRole:    fromRole,
		ToRole:      toRole,
		Meta:        meta,
		Read:        false,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	s.logger.Debug("notification added",
		zap.String("type", string(typ)),
		zap.String("to_role", toRole),
		zap.String("order_number", meta.OrderNumber),
	)
	return n, nil
}

func (s *notificationStore) MarkAsRead(ctx context.Context, shopID, id string) error {
	return s.repo.MarkRead(ctx, shopID, id)
}

func (s *notificationStore) MarkAllAsRead(ctx context.Context, shopID, toRole string) error {
	return s.repo.MarkAllRead(ctx, shopID, toRole)
}

func (s *notificationStore) Delete(ctx context.Context, shopID, id string) error {
	return s.repo.Delete(ctx, shopID, id)
}

func (s *notificationStore) ClearAll(ctx context.Context, shopID string) error {
	return s.repo.DeleteAll(ctx, shopID)
}

func (s *notificationStore) List(ctx context.Context, shopID string, limit int) ([]model.Notification, error) {
	return s.repo.FindAll(ctx, shopID, limit)
}

func (s *notificationStore) UnreadByRole(ctx context.Context, shopID, toRole string) ([]model.Notification, error) {
	return s.repo.FindUnreadByRole(ctx, shopID, toRole)
}

func (s *notificationStore) ByType(ctx context.Context, shopID string, typ model.NotificationType) ([]model.Notification, error) {
	return s.repo.FindByType(ctx, shopID, typ)
}

func (s *notificationStore) ByOrderID(ctx context.Context, shopID, orderID string) ([]model.Notification, error) {
	return s.repo.FindByOrder(ctx, shopID, orderID)
}
