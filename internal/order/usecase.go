package order

import (
	"context"

	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/atelierprint/printshop-service/internal/order/dto"
	"github.com/atelierprint/printshop-service/internal/pricing"
)

type UseCase interface {
	// Quote prices an order without persisting anything.
	Quote(ctx context.Context, input *dto.QuoteInput) (*pricing.PriceResult, pricing.StockCheckResult, error)

	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, shopID, id string) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	UpdateStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.Order, error)
	DeleteOrder(ctx context.Context, shopID, id string) error
}

// EventPublisher is the slice of the broker producer the usecase needs.
type EventPublisher interface {
	Publish(ctx context.Context, key, eventType string, payload []byte) error
}
