package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/atelierprint/printshop-service/internal/event"
	"github.com/atelierprint/printshop-service/internal/material"
	"github.com/atelierprint/printshop-service/pkg/broker"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"go.uber.org/zap"
)

// StockListener consumes order events and burns the quoted material length
// off roll stock. This is where the advisory quote becomes a real decrement.
type StockListener struct {
	consumer *broker.KafkaConsumer
	uc       material.UseCase
	logger   logger.ZapLogger
}

func NewStockListener(consumer *broker.KafkaConsumer, uc material.UseCase, logger logger.ZapLogger) *StockListener {
	return &StockListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *StockListener) Start(ctx context.Context) {
	l.logger.Info("Starting stock Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping stock Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *StockListener) processMessage(ctx context.Context, value []byte) {
	var ev event.OrderEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if ev.EventType != event.OrderCreated {
		return
	}

	l.logger.Info("Processing OrderCreated event",
		zap.String("order_id", ev.Payload.ID),
		zap.String("order_number", ev.Payload.Number),
	)

	err := l.uc.DeductForOrder(ctx,
		ev.Payload.ShopID,
		ev.Payload.MaterialID,
		ev.Payload.ID,
		ev.Payload.WidthCm,
		ev.Payload.MaterialLengthUsed,
	)
	if err != nil {
		l.logger.Error("Failed to deduct stock for order",
			zap.String("order_id", ev.Payload.ID),
			zap.String("material_id", ev.Payload.MaterialID),
			zap.Error(err),
		)
	}
}
