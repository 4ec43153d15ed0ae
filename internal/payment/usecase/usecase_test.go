package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/atelierprint/printshop-service/internal/model"
	odto "github.com/atelierprint/printshop-service/internal/order/dto"
	"github.com/atelierprint/printshop-service/internal/payment"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPaymentRepo struct {
	payments map[string]*model.Payment
	seq      int
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[string]*model.Payment)}
}

func (m *mockPaymentRepo) Create(_ context.Context, p *model.Payment) error {
	m.payments[p.ID] = p
	return nil
}

func (m *mockPaymentRepo) FindByID(_ context.Context, id string) (*model.Payment, error) {
	return m.payments[id], nil
}

func (m *mockPaymentRepo) FindAll(_ context.Context, filters *payment.PaymentFilters) ([]model.Payment, int, error) {
	var out []model.Payment
	for _, p := range m.payments {
		if p.ShopID == filters.ShopID {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (m *mockPaymentRepo) FindByOrder(_ context.Context, shopID, orderID string) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range m.payments {
		if p.ShopID == shopID && p.OrderID == orderID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) Delete(_ context.Context, id string) error {
	delete(m.payments, id)
	return nil
}

func (m *mockPaymentRepo) NextInvoiceSequence(_ context.Context, _, _ string) (int, error) {
	m.seq++
	return m.seq, nil
}

// stubOrderRepo serves a fixed set of orders; the write methods are never hit
// by the payment flow.
type stubOrderRepo struct {
	orders map[string]*model.Order
}

func (s *stubOrderRepo) FindByID(_ context.Context, id string) (*model.Order, error) {
	return s.orders[id], nil
}
func (s *stubOrderRepo) Create(context.Context, *model.Order) error { return nil }
func (s *stubOrderRepo) Update(context.Context, *model.Order) error { return nil }
func (s *stubOrderRepo) Delete(context.Context, string) error       { return nil }
func (s *stubOrderRepo) FindByNumber(context.Context, string, string) (*model.Order, error) {
	return nil, nil
}
func (s *stubOrderRepo) FindAll(context.Context, *odto.OrderFilters) ([]model.Order, int, error) {
	return nil, 0, nil
}
func (s *stubOrderRepo) NextSequence(context.Context, string, string) (int, error) { return 0, nil }

type recordingPublisher struct {
	eventTypes []string
}

func (r *recordingPublisher) Publish(_ context.Context, _, eventType string, _ []byte) error {
	r.eventTypes = append(r.eventTypes, eventType)
	return nil
}

func fixtureOrders() *stubOrderRepo {
	return &stubOrderRepo{orders: map[string]*model.Order{
		"o-1": {
			BaseModel:  model.BaseModel{ID: "o-1"},
			ShopID:     "shop-1",
			Number:     "CMD-20260829-0001",
			ClientName: "Client Test",
			TotalPrice: 10000,
			Status:     model.OrderPending,
		},
		"o-dg": {
			BaseModel:  model.BaseModel{ID: "o-dg"},
			ShopID:     "shop-1",
			Number:     "CMD-20260829-0002",
			ClientName: "Direction",
			TotalPrice: 0,
			Special:    true,
			Status:     model.OrderPending,
		},
		"o-cancelled": {
			BaseModel: model.BaseModel{ID: "o-cancelled"},
			ShopID:    "shop-1",
			Status:    model.OrderCancelled,
		},
	}}
}

func TestRecordPayment_InvoiceNumberFormat(t *testing.T) {
	uc := NewPaymentUseCase(newMockPaymentRepo(), fixtureOrders(), nil, logger.NewNop())

	p, err := uc.RecordPayment(context.Background(), &payment.CreatePaymentInput{
		ShopID: "shop-1", OrderID: "o-1", Amount: 4000, Method: model.PaymentCash,
	})
	require.NoError(t, err)

	day := time.Now().Format("20060102")
	assert.Equal(t, fmt.Sprintf("FAC-%s-0001", day), p.InvoiceNumber)
}

func TestRecordPayment_PartialThenFull(t *testing.T) {
	pub := &recordingPublisher{}
	uc := NewPaymentUseCase(newMockPaymentRepo(), fixtureOrders(), pub, logger.NewNop())
	ctx := context.Background()

	_, err := uc.RecordPayment(ctx, &payment.CreatePaymentInput{
		ShopID: "shop-1", OrderID: "o-1", Amount: 4000, Method: model.PaymentCash,
	})
	require.NoError(t, err)
	assert.Empty(t, pub.eventTypes, "partial payment must not emit PaymentReceived")

	balance, err := uc.Balance(ctx, "shop-1", "o-1")
	require.NoError(t, err)
	assert.Equal(t, 4000.0, balance.Paid)
	assert.Equal(t, 6000.0, balance.Remaining)
	assert.False(t, balance.FullyPaid)

	_, err = uc.RecordPayment(ctx, &payment.CreatePaymentInput{
		ShopID: "shop-1", OrderID: "o-1", Amount: 6000, Method: model.PaymentCard,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"PaymentReceived"}, pub.eventTypes)

	balance, err = uc.Balance(ctx, "shop-1", "o-1")
	require.NoError(t, err)
	assert.True(t, balance.FullyPaid)
	assert.Equal(t, 2, balance.PaymentIDs)
}

func TestRecordPayment_RejectsOverpayment(t *testing.T) {
	uc := NewPaymentUseCase(newMockPaymentRepo(), fixtureOrders(), nil, logger.NewNop())
	ctx := context.Background()

	_, err := uc.RecordPayment(ctx, &payment.CreatePaymentInput{
		ShopID: "shop-1", OrderID: "o-1", Amount: 9000, Method: model.PaymentCash,
	})
	require.NoError(t, err)

	_, err = uc.RecordPayment(ctx, &payment.CreatePaymentInput{
		ShopID: "shop-1", OrderID: "o-1", Amount: 2000, Method: model.PaymentCash,
	})
	assert.True(t, errors.Is(err, ErrOverpayment))
}

func TestRecordPayment_RejectsNonPositiveAmount(t *testing.T) {
	uc := NewPaymentUseCase(newMockPaymentRepo(), fixtureOrders(), nil, logger.NewNop())

	_, err := uc.RecordPayment(context.Background(), &payment.CreatePaymentInput{
		ShopID: "shop-1", OrderID: "o-1", Amount: 0, Method: model.PaymentCash,
	})
	assert.True(t, errors.Is(err, ErrNegativePayment))
}

func TestRecordPayment_HouseOrder(t *testing.T) {
	pub := &recordingPublisher{}
	uc := NewPaymentUseCase(newMockPaymentRepo(), fixtureOrders(), pub, logger.NewNop())
	ctx := context.Background()

	// a DG order cannot carry an amount
	_, err := uc.RecordPayment(ctx, &payment.CreatePaymentInput{
		ShopID: "shop-1", OrderID: "o-dg", Amount: 500, Method: model.PaymentCash,
	})
	assert.True(t, errors.Is(err, ErrSpecialOrderPaid))

	// the zero-amount record is forced onto the house method and closes it
	p, err := uc.RecordPayment(ctx, &payment.CreatePaymentInput{
		ShopID: "shop-1", OrderID: "o-dg", Amount: 0, Method: model.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentHouse, p.Method)
	assert.Equal(t, []string{"PaymentReceived"}, pub.eventTypes)

	// a repeated house receipt is recorded but does not settle the order again
	p2, err := uc.RecordPayment(ctx, &payment.CreatePaymentInput{
		ShopID: "shop-1", OrderID: "o-dg", Amount: 0, Method: model.PaymentHouse,
	})
	require.NoError(t, err)
	assert.NotEqual(t, p.InvoiceNumber, p2.InvoiceNumber)
	assert.Equal(t, []string{"PaymentReceived"}, pub.eventTypes)
}

func TestRecordPayment_CancelledOrder(t *testing.T) {
	uc := NewPaymentUseCase(newMockPaymentRepo(), fixtureOrders(), nil, logger.NewNop())

	_, err := uc.RecordPayment(context.Background(), &payment.CreatePaymentInput{
		ShopID: "shop-1", OrderID: "o-cancelled", Amount: 100, Method: model.PaymentCash,
	})
	assert.True(t, errors.Is(err, ErrOrderCancelled))
}

func TestRecordPayment_WrongShop(t *testing.T) {
	uc := NewPaymentUseCase(newMockPaymentRepo(), fixtureOrders(), nil, logger.NewNop())

	_, err := uc.RecordPayment(context.Background(), &payment.CreatePaymentInput{
		ShopID: "shop-2", OrderID: "o-1", Amount: 100, Method: model.PaymentCash,
	})
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}
