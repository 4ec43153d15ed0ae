package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atelierprint/printshop-service/internal/event"
	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/atelierprint/printshop-service/internal/order"
	"github.com/atelierprint/printshop-service/internal/payment"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderCancelled   = errors.New("cannot pay a cancelled order")
	ErrOverpayment      = errors.New("payment exceeds remaining balance")
	ErrNegativePayment  = errors.New("payment amount must be positive")
	ErrSpecialOrderPaid = errors.New("house orders carry no balance")
)

type paymentUseCase struct {
	repo      payment.Repository
	orders    order.Repository
	publisher order.EventPublisher
	logger    logger.ZapLogger
}

func NewPaymentUseCase(repo payment.Repository, orders order.Repository, publisher order.EventPublisher, log logger.ZapLogger) payment.UseCase {
	return &paymentUseCase{
		repo:      repo,
		orders:    orders,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *paymentUseCase) RecordPayment(ctx context.Context, input *payment.CreatePaymentInput) (*model.Payment, error) {
	o, err := uc.orders.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if o == nil || o.ShopID != input.ShopID {
		return nil, ErrOrderNotFound
	}
	if o.Status == model.OrderCancelled {
		return nil, ErrOrderCancelled
	}

	house := o.Special || input.Method == model.PaymentHouse
	firstHouseReceipt := false
	if house {
		// DG orders are logged with a zero-amount house payment so the
		// invoice trail stays complete.
		if input.Amount != 0 {
			return nil, ErrSpecialOrderPaid
		}
		input.Method = model.PaymentHouse
		prior, err := uc.repo.FindByOrder(ctx, input.ShopID, input.OrderID)
		if err != nil {
			return nil, err
		}
		firstHouseReceipt = len(prior) == 0
	} else {
		if input.Amount <= 0 {
			return nil, ErrNegativePayment
		}
		paid, err := uc.totalPaid(ctx, input.ShopID, input.OrderID)
		if err != nil {
			return nil, err
		}
		if paid+input.Amount > o.TotalPrice {
			return nil, errors.Wrapf(ErrOverpayment, "remaining %.2f, offered %.2f", o.TotalPrice-paid, input.Amount)
		}
	}

	invoice, err := uc.nextInvoiceNumber(ctx, input.ShopID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var receivedBy *string
	if input.UserID != "" {
		receivedBy = &input.UserID
	}

	p := &model.Payment{
		BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ShopID:        input.ShopID,
		OrderID:       input.OrderID,
		InvoiceNumber: invoice,
		Amount:        input.Amount,
		Method:        input.Method,
		ReceivedBy:    receivedBy,
		Notes:         input.Notes,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	// A house order settles on its first receipt; duplicates are recorded
	// without re-announcing. A regular order settles when fully paid.
	if house {
		if firstHouseReceipt {
			uc.publishPaymentReceived(ctx, p, o)
		}
	} else if paid, err := uc.totalPaid(ctx, input.ShopID, input.OrderID); err == nil && paid >= o.TotalPrice {
		uc.publishPaymentReceived(ctx, p, o)
	}

	return p, nil
}

func (uc *paymentUseCase) nextInvoiceNumber(ctx context.Context, shopID string) (string, error) {
	day := time.Now().Format("20060102")
	seq, err := uc.repo.NextInvoiceSequence(ctx, shopID, day)
	if err != nil {
		return "", errors.Wrap(err, "invoice number sequence")
	}
	return fmt.Sprintf("FAC-%s-%04d", day, seq), nil
}

func (uc *paymentUseCase) totalPaid(ctx context.Context, shopID, orderID string) (float64, error) {
	payments, err := uc.repo.FindByOrder(ctx, shopID, orderID)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, p := range payments {
		sum += p.Amount
	}
	return sum, nil
}

func (uc *paymentUseCase) GetPayment(ctx context.Context, shopID, id string) (*model.Payment, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.ShopID != shopID {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

func (uc *paymentUseCase) ListPayments(ctx context.Context, filters *payment.PaymentFilters) ([]model.Payment, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *paymentUseCase) Balance(ctx context.Context, shopID, orderID string) (*payment.OrderBalance, error) {
	o, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || o.ShopID != shopID {
		return nil, ErrOrderNotFound
	}

	payments, err := uc.repo.FindByOrder(ctx, shopID, orderID)
	if err != nil {
		return nil, err
	}

	var paid float64
	for _, p := range payments {
		paid += p.Amount
	}

	return &payment.OrderBalance{
		OrderID:    orderID,
		Total:      o.TotalPrice,
		Paid:       paid,
		Remaining:  o.TotalPrice - paid,
		FullyPaid:  paid >= o.TotalPrice,
		PaymentIDs: len(payments),
	}, nil
}

func (uc *paymentUseCase) DeletePayment(ctx context.Context, shopID, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil || p.ShopID != shopID {
		return nil // Already deleted
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *paymentUseCase) publishPaymentReceived(ctx context.Context, p *model.Payment, o *model.Order) {
	if uc.publisher == nil {
		return
	}
	ev := event.PaymentEvent{
		EventID:   uuid.New().String(),
		EventType: event.PaymentReceived,
		Payload: event.PaymentPayload{
			ID:            p.ID,
			ShopID:        p.ShopID,
			OrderID:       o.ID,
			OrderNumber:   o.Number,
			ClientName:    o.ClientName,
			InvoiceNumber: p.InvoiceNumber,
			Amount:        p.Amount,
			Method:        string(p.Method),
		},
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(ev)
	if err != nil {
		uc.logger.Error("failed to marshal payment event", zap.Error(err))
		return
	}
	if err := uc.publisher.Publish(ctx, o.ID, event.PaymentReceived, data); err != nil {
		uc.logger.Error("failed to publish payment event",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}
