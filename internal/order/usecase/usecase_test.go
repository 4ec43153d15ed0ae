package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/atelierprint/printshop-service/internal/material/dto"
	"github.com/atelierprint/printshop-service/internal/model"
	odto "github.com/atelierprint/printshop-service/internal/order/dto"
	"github.com/atelierprint/printshop-service/internal/pricing"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockOrderRepo struct {
	orders map[string]*model.Order
	seq    int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]*model.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, o *model.Order) error {
	m.orders[o.ID] = o
	return nil
}

func (m *mockOrderRepo) Update(_ context.Context, o *model.Order) error {
	m.orders[o.ID] = o
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id string) error {
	delete(m.orders, id)
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id string) (*model.Order, error) {
	return m.orders[id], nil
}

func (m *mockOrderRepo) FindByNumber(_ context.Context, shopID, number string) (*model.Order, error) {
	for _, o := range m.orders {
		if o.ShopID == shopID && o.Number == number {
			return o, nil
		}
	}
	return nil, nil
}

func (m *mockOrderRepo) FindAll(_ context.Context, filters *odto.OrderFilters) ([]model.Order, int, error) {
	var out []model.Order
	for _, o := range m.orders {
		if o.ShopID == filters.ShopID {
			out = append(out, *o)
		}
	}
	return out, len(out), nil
}

func (m *mockOrderRepo) NextSequence(_ context.Context, _, _ string) (int, error) {
	m.seq++
	return m.seq, nil
}

// mockMaterialUC serves one material with a fixed stock snapshot.
type mockMaterialUC struct {
	material *model.Material
	stock    pricing.Stock
	rolls    []model.Roll
}

func (m *mockMaterialUC) GetMaterial(_ context.Context, shopID, id string) (*model.Material, error) {
	if m.material == nil || m.material.ID != id {
		return nil, errors.New("material not found")
	}
	return m.material, nil
}

func (m *mockMaterialUC) StockSnapshot(_ context.Context, _, _ string) (pricing.Stock, []model.Roll, error) {
	return m.stock, m.rolls, nil
}

func (m *mockMaterialUC) CreateMaterial(context.Context, *dto.CreateMaterialInput) (*model.Material, error) {
	return nil, nil
}
func (m *mockMaterialUC) UpdateMaterial(context.Context, *dto.UpdateMaterialInput) (*model.Material, error) {
	return nil, nil
}
func (m *mockMaterialUC) DeleteMaterial(context.Context, string) error { return nil }
func (m *mockMaterialUC) ListMaterials(context.Context, *dto.MaterialFilters) ([]model.Material, int, error) {
	return nil, 0, nil
}
func (m *mockMaterialUC) AddRoll(context.Context, *dto.CreateRollInput) (*model.Roll, error) {
	return nil, nil
}
func (m *mockMaterialUC) ListLowStock(context.Context, string, int, int) ([]model.Roll, int, error) {
	return nil, 0, nil
}
func (m *mockMaterialUC) ListMovements(context.Context, *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return nil, 0, nil
}
func (m *mockMaterialUC) CheckStock(context.Context, string, string, float64, int) (pricing.StockCheckResult, error) {
	return pricing.StockCheckResult{}, nil
}
func (m *mockMaterialUC) AdjustStock(context.Context, *dto.AdjustStockInput) (*model.Roll, error) {
	return nil, nil
}
func (m *mockMaterialUC) DeductForOrder(context.Context, string, string, string, float64, float64) error {
	return nil
}

type publishedEvent struct {
	key       string
	eventType string
	payload   []byte
}

type mockPublisher struct {
	events []publishedEvent
}

func (m *mockPublisher) Publish(_ context.Context, key, eventType string, payload []byte) error {
	m.events = append(m.events, publishedEvent{key: key, eventType: eventType, payload: payload})
	return nil
}

func fixtureMaterials() *mockMaterialUC {
	return &mockMaterialUC{
		material: &model.Material{
			BaseModel: model.BaseModel{ID: "mat-1"},
			ShopID:    "shop-1",
			Name:      "Bâche 510g",
			UnitPrice: 4500,
			Options: model.OptionTable{
				"oeillets": {Type: model.OptionPerUnit, Price: 100},
			},
			IsActive: true,
		},
		stock: pricing.Stock{Widths: []float64{100, 150, 200}, Length: 80, AlertThreshold: 10},
		rolls: []model.Roll{
			{ID: "roll-100", MaterialID: "mat-1", Width: 100, Length: 20},
			{ID: "roll-150", MaterialID: "mat-1", Width: 150, Length: 30},
			{ID: "roll-200", MaterialID: "mat-1", Width: 200, Length: 30},
		},
	}
}

func newTestUseCase(repo *mockOrderRepo, mats *mockMaterialUC, pub *mockPublisher) *orderUseCase {
	uc := NewOrderUseCase(repo, mats, nil, nil, pub, logger.NewNop())
	return uc.(*orderUseCase)
}

func TestCreateOrder_AssignsDailyNumber(t *testing.T) {
	repo := newMockOrderRepo()
	pub := &mockPublisher{}
	uc := newTestUseCase(repo, fixtureMaterials(), pub)

	day := time.Now().Format("20060102")
	for i := 1; i <= 3; i++ {
		o, err := uc.CreateOrder(context.Background(), &odto.CreateOrderInput{
			ShopID:     "shop-1",
			ClientName: "Client Test",
			MaterialID: "mat-1",
			WidthCm:    96,
			LengthCm:   200,
			Quantity:   1,
		})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("CMD-%s-%04d", day, i), o.Number)
	}
}

func TestCreateOrder_MatchesRollToSelectedWidth(t *testing.T) {
	repo := newMockOrderRepo()
	uc := newTestUseCase(repo, fixtureMaterials(), &mockPublisher{})

	// 96 + 5 margin does not fit the 100 roll, so the 150 one is picked.
	o, err := uc.CreateOrder(context.Background(), &odto.CreateOrderInput{
		ShopID:     "shop-1",
		ClientName: "Client Test",
		MaterialID: "mat-1",
		WidthCm:    96,
		LengthCm:   200,
		Quantity:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, 150.0, o.SelectedWidth)
	assert.Equal(t, "roll-150", o.RollID)
	assert.Equal(t, model.OrderPending, o.Status)
	// billed at the trimmed width: (145 * 200 / 10000) * 4500
	assert.InDelta(t, 13050.0, o.TotalPrice, 0.001)
}

func TestCreateOrder_PublishesCreatedEvent(t *testing.T) {
	repo := newMockOrderRepo()
	pub := &mockPublisher{}
	uc := newTestUseCase(repo, fixtureMaterials(), pub)

	o, err := uc.CreateOrder(context.Background(), &odto.CreateOrderInput{
		ShopID:     "shop-1",
		ClientName: "Client Test",
		MaterialID: "mat-1",
		WidthCm:    96,
		LengthCm:   200,
		Quantity:   1,
		UserRole:   "accueil",
	})
	require.NoError(t, err)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "OrderCreated", pub.events[0].eventType)
	assert.Equal(t, o.ID, pub.events[0].key)
}

func TestCreateOrder_SpecialBilledAtZero(t *testing.T) {
	repo := newMockOrderRepo()
	uc := newTestUseCase(repo, fixtureMaterials(), &mockPublisher{})

	o, err := uc.CreateOrder(context.Background(), &odto.CreateOrderInput{
		ShopID:     "shop-1",
		ClientName: "Direction",
		MaterialID: "mat-1",
		WidthCm:    96,
		LengthCm:   200,
		Quantity:   2,
		Special:    true,
	})
	require.NoError(t, err)
	assert.Zero(t, o.TotalPrice)
	assert.True(t, o.Special)
	// material is still consumed even though nothing is billed
	assert.InDelta(t, 4.0, o.MaterialLengthUsed, 0.001)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	mats := fixtureMaterials()
	mats.stock.Length = 3 // 2 x 2 m needed
	uc := newTestUseCase(newMockOrderRepo(), mats, &mockPublisher{})

	_, err := uc.CreateOrder(context.Background(), &odto.CreateOrderInput{
		ShopID:     "shop-1",
		ClientName: "Client Test",
		MaterialID: "mat-1",
		WidthCm:    96,
		LengthCm:   200,
		Quantity:   2,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pricing.ErrInsufficientStock))
}

func TestUpdateStatus_Lifecycle(t *testing.T) {
	repo := newMockOrderRepo()
	pub := &mockPublisher{}
	uc := newTestUseCase(repo, fixtureMaterials(), pub)

	o, err := uc.CreateOrder(context.Background(), &odto.CreateOrderInput{
		ShopID:     "shop-1",
		ClientName: "Client Test",
		MaterialID: "mat-1",
		WidthCm:    96,
		LengthCm:   200,
		Quantity:   1,
	})
	require.NoError(t, err)
	pub.events = nil

	// pending cannot jump straight to delivered
	_, err = uc.UpdateStatus(context.Background(), &odto.UpdateStatusInput{
		ID: o.ID, ShopID: "shop-1", Status: model.OrderDelivered,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	for _, step := range []model.OrderStatus{model.OrderInProduction, model.OrderReady, model.OrderDelivered} {
		updated, err := uc.UpdateStatus(context.Background(), &odto.UpdateStatusInput{
			ID: o.ID, ShopID: "shop-1", Status: step, UserRole: "graphiste",
		})
		require.NoError(t, err)
		assert.Equal(t, step, updated.Status)
	}

	require.Len(t, pub.events, 2)
	assert.Equal(t, "ProductionComplete", pub.events[0].eventType)
	assert.Equal(t, "OrderCompleted", pub.events[1].eventType)
}

func TestUpdateStatus_DeliveredIsTerminal(t *testing.T) {
	repo := newMockOrderRepo()
	uc := newTestUseCase(repo, fixtureMaterials(), &mockPublisher{})

	o, err := uc.CreateOrder(context.Background(), &odto.CreateOrderInput{
		ShopID:     "shop-1",
		ClientName: "Client Test",
		MaterialID: "mat-1",
		WidthCm:    96,
		LengthCm:   200,
		Quantity:   1,
	})
	require.NoError(t, err)
	o.Status = model.OrderDelivered

	_, err = uc.UpdateStatus(context.Background(), &odto.UpdateStatusInput{
		ID: o.ID, ShopID: "shop-1", Status: model.OrderCancelled,
	})
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestGetOrder_WrongShop(t *testing.T) {
	repo := newMockOrderRepo()
	uc := newTestUseCase(repo, fixtureMaterials(), &mockPublisher{})

	o, err := uc.CreateOrder(context.Background(), &odto.CreateOrderInput{
		ShopID:     "shop-1",
		ClientName: "Client Test",
		MaterialID: "mat-1",
		WidthCm:    96,
		LengthCm:   200,
		Quantity:   1,
	})
	require.NoError(t, err)

	_, err = uc.GetOrder(context.Background(), "shop-2", o.ID)
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}
