package usecase

import (
	"context"
	"sort"
	"testing"

	"github.com/atelierprint/printshop-service/internal/material/dto"
	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMaterialRepo struct {
	materials map[string]*model.Material
	rolls     map[string]*model.Roll
	movements []*model.StockMovement
}

func newMockMaterialRepo() *mockMaterialRepo {
	return &mockMaterialRepo{
		materials: make(map[string]*model.Material),
		rolls:     make(map[string]*model.Roll),
	}
}

func (m *mockMaterialRepo) Create(_ context.Context, mat *model.Material) error {
	m.materials[mat.ID] = mat
	return nil
}

func (m *mockMaterialRepo) Update(_ context.Context, mat *model.Material) error {
	m.materials[mat.ID] = mat
	return nil
}

func (m *mockMaterialRepo) Delete(_ context.Context, id string) error {
	delete(m.materials, id)
	return nil
}

func (m *mockMaterialRepo) FindByID(_ context.Context, id string) (*model.Material, error) {
	return m.materials[id], nil
}

func (m *mockMaterialRepo) FindAll(_ context.Context, filters *dto.MaterialFilters) ([]model.Material, int, error) {
	var out []model.Material
	for _, mat := range m.materials {
		if mat.ShopID == filters.ShopID {
			out = append(out, *mat)
		}
	}
	return out, len(out), nil
}

func (m *mockMaterialRepo) CreateRoll(_ context.Context, r *model.Roll) error {
	m.rolls[r.ID] = r
	return nil
}

func (m *mockMaterialRepo) GetRoll(_ context.Context, id string) (*model.Roll, error) {
	return m.rolls[id], nil
}

// RollsByMaterial returns width-ascending, like the SQL ORDER BY.
func (m *mockMaterialRepo) RollsByMaterial(_ context.Context, shopID, materialID string) ([]model.Roll, error) {
	var out []model.Roll
	for _, r := range m.rolls {
		if r.ShopID == shopID && r.MaterialID == materialID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Width < out[j].Width })
	return out, nil
}

func (m *mockMaterialRepo) FindRolls(_ context.Context, filters *dto.RollFilters) ([]model.Roll, int, error) {
	var out []model.Roll
	for _, r := range m.rolls {
		if r.ShopID != filters.ShopID {
			continue
		}
		if filters.LowStock && r.Length >= r.AlertThreshold {
			continue
		}
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (m *mockMaterialRepo) ListMovements(_ context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var out []model.StockMovement
	for _, mv := range m.movements {
		if mv.ShopID == filters.ShopID {
			out = append(out, *mv)
		}
	}
	return out, len(out), nil
}

func (m *mockMaterialRepo) AdjustRollWithMovement(_ context.Context, roll *model.Roll, movement *model.StockMovement) error {
	m.rolls[roll.ID] = roll
	m.movements = append(m.movements, movement)
	return nil
}

func seedMaterial(t *testing.T, repo *mockMaterialRepo) *model.Material {
	t.Helper()
	mat := &model.Material{
		BaseModel: model.BaseModel{ID: "mat-1"},
		ShopID:    "shop-1",
		Name:      "Vinyle adhésif",
		UnitPrice: 6000,
		IsActive:  true,
	}
	repo.materials[mat.ID] = mat
	repo.rolls["roll-a"] = &model.Roll{
		ID: "roll-a", ShopID: "shop-1", MaterialID: "mat-1",
		Width: 200, Length: 15, AlertThreshold: 8,
	}
	repo.rolls["roll-b"] = &model.Roll{
		ID: "roll-b", ShopID: "shop-1", MaterialID: "mat-1",
		Width: 100, Length: 20, AlertThreshold: 5,
	}
	return mat
}

func TestStockSnapshot_AggregatesRollsAscending(t *testing.T) {
	repo := newMockMaterialRepo()
	seedMaterial(t, repo)
	uc := NewMaterialUseCase(repo, nil, logger.NewNop())

	snapshot, rolls, err := uc.StockSnapshot(context.Background(), "shop-1", "mat-1")
	require.NoError(t, err)

	assert.Equal(t, []float64{100, 200}, snapshot.Widths)
	assert.Equal(t, 35.0, snapshot.Length)
	// Strictest per-roll threshold, not the sum across rolls.
	assert.Equal(t, 8.0, snapshot.AlertThreshold)
	require.Len(t, rolls, 2)
	assert.Equal(t, "roll-b", rolls[0].ID)
}

func TestCheckStock_ShortfallAndWarning(t *testing.T) {
	repo := newMockMaterialRepo()
	seedMaterial(t, repo)
	uc := NewMaterialUseCase(repo, nil, logger.NewNop())
	ctx := context.Background()

	// 1000 cm x 2 = 20 m fits within 35 m
	ok, err := uc.CheckStock(ctx, "shop-1", "mat-1", 1000, 2)
	require.NoError(t, err)
	assert.True(t, ok.Available)
	assert.Equal(t, 20.0, ok.MaterialLengthUsed)
	assert.Equal(t, 15.0, ok.RemainingStock)

	// 1000 cm x 4 = 40 m exceeds stock; remaining goes negative
	short, err := uc.CheckStock(ctx, "shop-1", "mat-1", 1000, 4)
	require.NoError(t, err)
	assert.False(t, short.Available)
	assert.Equal(t, -5.0, short.RemainingStock)
	assert.NotEmpty(t, short.Message)

	// 1000 cm x 3 = 30 m leaves 5 m, below the strictest roll threshold of 8
	warn, err := uc.CheckStock(ctx, "shop-1", "mat-1", 1000, 3)
	require.NoError(t, err)
	assert.True(t, warn.Available)
	assert.NotEmpty(t, warn.Message)
}

func TestGetMaterial_AttachesRolls(t *testing.T) {
	repo := newMockMaterialRepo()
	seedMaterial(t, repo)
	uc := NewMaterialUseCase(repo, nil, logger.NewNop())

	mat, err := uc.GetMaterial(context.Background(), "shop-1", "mat-1")
	require.NoError(t, err)
	assert.Len(t, mat.Rolls, 2)

	_, err = uc.GetMaterial(context.Background(), "shop-2", "mat-1")
	assert.ErrorIs(t, err, ErrMaterialNotFound)
}

func TestAddRoll_DefaultsUnit(t *testing.T) {
	repo := newMockMaterialRepo()
	seedMaterial(t, repo)
	uc := NewMaterialUseCase(repo, nil, logger.NewNop())

	roll, err := uc.AddRoll(context.Background(), &dto.CreateRollInput{
		ShopID:     "shop-1",
		MaterialID: "mat-1",
		Width:      150,
		Length:     25,
	})
	require.NoError(t, err)
	assert.Equal(t, "m", roll.Unit)
	assert.NotEmpty(t, roll.ID)

	_, err = uc.AddRoll(context.Background(), &dto.CreateRollInput{
		ShopID:     "shop-1",
		MaterialID: "unknown",
		Width:      150,
		Length:     25,
	})
	assert.ErrorIs(t, err, ErrMaterialNotFound)
}

func TestListLowStock(t *testing.T) {
	repo := newMockMaterialRepo()
	seedMaterial(t, repo)
	repo.rolls["roll-low"] = &model.Roll{
		ID: "roll-low", ShopID: "shop-1", MaterialID: "mat-1",
		Width: 150, Length: 2, AlertThreshold: 5,
	}
	uc := NewMaterialUseCase(repo, nil, logger.NewNop())

	rolls, total, err := uc.ListLowStock(context.Background(), "shop-1", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rolls, 1)
	assert.Equal(t, "roll-low", rolls[0].ID)
}
