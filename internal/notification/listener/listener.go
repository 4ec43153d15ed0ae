package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/atelierprint/printshop-service/internal/auth"
	"github.com/atelierprint/printshop-service/internal/event"
	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/atelierprint/printshop-service/internal/notification"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the consumer side of a single topic.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// NotificationListener turns order and payment events into role-targeted
// notifications for the dashboard badges. Each event family arrives on its
// own topic, so the listener holds one reader per family.
type NotificationListener struct {
	orders   MessageReader
	payments MessageReader
	store    notification.Store
	logger   logger.ZapLogger
}

func NewNotificationListener(orders, payments MessageReader, store notification.Store, logger logger.ZapLogger) *NotificationListener {
	return &NotificationListener{
		orders:   orders,
		payments: payments,
		store:    store,
		logger:   logger,
	}
}

func (l *NotificationListener) Start(ctx context.Context) {
	l.logger.Info("Starting notification Kafka listener")
	go l.consume(ctx, l.payments, l.processPaymentMessage)
	l.consume(ctx, l.orders, l.processOrderMessage)
}

func (l *NotificationListener) consume(ctx context.Context, c MessageReader, handle func(context.Context, []byte)) {
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping notification Kafka listener")
			return
		default:
			msg, err := c.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			handle(ctx, msg.Value)
		}
	}
}

func (l *NotificationListener) processOrderMessage(ctx context.Context, value []byte) {
	var ev event.OrderEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		l.logger.Error("Failed to unmarshal order event", zap.Error(err))
		return
	}

	meta := model.NotificationMeta{
		OrderID:          ev.Payload.ID,
		OrderNumber:      ev.Payload.Number,
		ClientName:       ev.Payload.ClientName,
		Amount:           ev.Payload.TotalPrice,
		ProductionStatus: ev.Payload.Status,
	}

	switch ev.EventType {
	case event.OrderCreated:
		l.add(ctx, ev.Payload.ShopID, model.NotifNewOrder, meta, ev.Payload.CreatedByRole, string(auth.RoleGraphiste))
		// DG orders are billed at zero, the cashier has nothing to collect.
		if ev.Payload.TotalPrice > 0 {
			l.add(ctx, ev.Payload.ShopID, model.NotifPaymentReady, meta, ev.Payload.CreatedByRole, string(auth.RoleCaisse))
		}
	case event.ProductionComplete:
		l.add(ctx, ev.Payload.ShopID, model.NotifProductionComplete, meta, string(auth.RoleGraphiste), string(auth.RoleAccueil))
	case event.OrderCompleted:
		l.add(ctx, ev.Payload.ShopID, model.NotifOrderComplete, meta, ev.Payload.CreatedByRole, string(auth.RoleAdmin))
	}
}

func (l *NotificationListener) processPaymentMessage(ctx context.Context, value []byte) {
	var ev event.PaymentEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		l.logger.Error("Failed to unmarshal payment event", zap.Error(err))
		return
	}

	if ev.EventType != event.PaymentReceived {
		return
	}

	meta := model.NotificationMeta{
		OrderID:     ev.Payload.OrderID,
		OrderNumber: ev.Payload.OrderNumber,
		ClientName:  ev.Payload.ClientName,
		Amount:      ev.Payload.Amount,
	}
	l.add(ctx, ev.Payload.ShopID, model.NotifOrderComplete, meta, string(auth.RoleCaisse), string(auth.RoleAccueil))
}

func (l *NotificationListener) add(ctx context.Context, shopID string, typ model.NotificationType, meta model.NotificationMeta, from, to string) {
	if _, err := l.store.Add(ctx, shopID, typ, meta, from, to); err != nil {
		l.logger.Error("Failed to add notification",
			zap.String("type", string(typ)),
			zap.String("order_id", meta.OrderID),
			zap.Error(err),
		)
	}
}
