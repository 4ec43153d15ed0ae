package payment

import (
	"context"

	"github.com/atelierprint/printshop-service/internal/model"
)

type CreatePaymentInput struct {
	ShopID  string
	OrderID string
	Amount  float64
	Method  model.PaymentMethod
	UserID  string
	Notes   string
}

type PaymentFilters struct {
	ShopID   string
	OrderID  string
	Method   string
	Page     int
	PageSize int
}

// OrderBalance is what the cashier screen shows for one order.
type OrderBalance struct {
	OrderID    string  `json:"order_id"`
	Total      float64 `json:"total"`
	Paid       float64 `json:"paid"`
	Remaining  float64 `json:"remaining"`
	FullyPaid  bool    `json:"fully_paid"`
	PaymentIDs int     `json:"payment_count"`
}

type Repository interface {
	Create(ctx context.Context, p *model.Payment) error
	FindByID(ctx context.Context, id string) (*model.Payment, error)
	FindAll(ctx context.Context, filters *PaymentFilters) ([]model.Payment, int, error)
	FindByOrder(ctx context.Context, shopID, orderID string) ([]model.Payment, error)
	Delete(ctx context.Context, id string) error

	// NextInvoiceSequence returns the next per-shop, per-day invoice number.
	NextInvoiceSequence(ctx context.Context, shopID, day string) (int, error)
}

type UseCase interface {
	RecordPayment(ctx context.Context, input *CreatePaymentInput) (*model.Payment, error)
	GetPayment(ctx context.Context, shopID, id string) (*model.Payment, error)
	ListPayments(ctx context.Context, filters *PaymentFilters) ([]model.Payment, int, error)
	Balance(ctx context.Context, shopID, orderID string) (*OrderBalance, error)
	DeletePayment(ctx context.Context, shopID, id string) error
}
