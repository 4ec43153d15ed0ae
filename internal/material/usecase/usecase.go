package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atelierprint/printshop-service/internal/material"
	"github.com/atelierprint/printshop-service/internal/material/dto"
	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/atelierprint/printshop-service/internal/pricing"
	"github.com/atelierprint/printshop-service/pkg/cache"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMaterialNotFound = errors.New("material not found")
	ErrRollNotFound     = errors.New("roll not found")
)

type materialUseCase struct {
	repo   material.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

func NewMaterialUseCase(repo material.Repository, cache *cache.RedisClient, log logger.ZapLogger) material.UseCase {
	return &materialUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *materialUseCase) CreateMaterial(ctx context.Context, input *dto.CreateMaterialInput) (*model.Material, error) {
	now := time.Now()
	m := &model.Material{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ShopID:    input.ShopID,
		Name:      input.Name,
		Type:      input.Type,
		UnitPrice: input.UnitPrice,
		Unit:      input.Unit,
		Options:   input.Options,
		IsActive:  true,
	}
	if m.Options == nil {
		m.Options = model.OptionTable{}
	}

	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (uc *materialUseCase) UpdateMaterial(ctx context.Context, input *dto.UpdateMaterialInput) (*model.Material, error) {
	m, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.ShopID != input.ShopID {
		return nil, ErrMaterialNotFound
	}

	m.Name = input.Name
	m.Type = input.Type
	m.UnitPrice = input.UnitPrice
	m.Unit = input.Unit
	m.Options = input.Options
	m.IsActive = input.IsActive
	m.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (uc *materialUseCase) DeleteMaterial(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *materialUseCase) GetMaterial(ctx context.Context, shopID, id string) (*model.Material, error) {
	m, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil || m.ShopID != shopID {
		return nil, ErrMaterialNotFound
	}

	rolls, err := uc.repo.RollsByMaterial(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	m.Rolls = rolls
	return m, nil
}

func (uc *materialUseCase) ListMaterials(ctx context.Context, filters *dto.MaterialFilters) ([]model.Material, int, error) {
	materials, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	// Attach rolls so listings carry the aggregated stock figures.
	for i := range materials {
		rolls, err := uc.repo.RollsByMaterial(ctx, materials[i].ShopID, materials[i].ID)
		if err != nil {
			return nil, 0, err
		}
		materials[i].Rolls = rolls
	}
	return materials, count, nil
}

func (uc *materialUseCase) AddRoll(ctx context.Context, input *dto.CreateRollInput) (*model.Roll, error) {
	m, err := uc.repo.FindByID(ctx, input.MaterialID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.ShopID != input.ShopID {
		return nil, ErrMaterialNotFound
	}

	roll := &model.Roll{
		ID:             uuid.New().String(),
		ShopID:         input.ShopID,
		MaterialID:     input.MaterialID,
		Width:          input.Width,
		Length:         input.Length,
		Unit:           input.Unit,
		AlertThreshold: input.AlertThreshold,
		UpdatedAt:      time.Now(),
	}
	if roll.Unit == "" {
		roll.Unit = "m"
	}

	if err := uc.repo.CreateRoll(ctx, roll); err != nil {
		return nil, err
	}
	return roll, nil
}

func (uc *materialUseCase) ListLowStock(ctx context.Context, shopID string, page, pageSize int) ([]model.Roll, int, error) {
	return uc.repo.FindRolls(ctx, &dto.RollFilters{
		ShopID:   shopID,
		LowStock: true,
		Page:     page,
		PageSize: pageSize,
	})
}

func (uc *materialUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

func (uc *materialUseCase) StockSnapshot(ctx context.Context, shopID, materialID string) (pricing.Stock, []model.Roll, error) {
	rolls, err := uc.repo.RollsByMaterial(ctx, shopID, materialID)
	if err != nil {
		return pricing.Stock{}, nil, err
	}

	// Lengths aggregate across rolls; the warning bar is the strictest
	// per-roll threshold, not the sum, which would inflate with roll count.
	var snapshot pricing.Stock
	for _, r := range rolls {
		snapshot.Widths = append(snapshot.Widths, r.Width)
		snapshot.Length += r.Length
		if r.AlertThreshold > snapshot.AlertThreshold {
			snapshot.AlertThreshold = r.AlertThreshold
		}
	}
	return snapshot, rolls, nil
}

func (uc *materialUseCase) CheckStock(ctx context.Context, shopID, materialID string, lengthCm float64, quantity int) (pricing.StockCheckResult, error) {
	snapshot, _, err := uc.StockSnapshot(ctx, shopID, materialID)
	if err != nil {
		return pricing.StockCheckResult{}, err
	}
	return pricing.ValidateStock(lengthCm, quantity, snapshot), nil
}

func (uc *materialUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Roll, error) {
	// Serialize adjustments per roll so two writers cannot both read the
	// same length-before.
	lockKey := fmt.Sprintf("lock:stock:%s:%s", input.ShopID, input.RollID)
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < 3; i++ {
		ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(100 * time.Millisecond) // wait before retry
	}

	if !acquired {
		return nil, errors.New("system busy, please try again later (lock)")
	}
	defer uc.cache.ReleaseLock(ctx, lockKey, lockValue)

	roll, err := uc.repo.GetRoll(ctx, input.RollID)
	if err != nil {
		return nil, err
	}
	if roll == nil || roll.ShopID != input.ShopID {
		return nil, ErrRollNotFound
	}

	now := time.Now()
	lengthBefore := roll.Length
	roll.Length += input.LengthChange
	roll.UpdatedAt = now

	if roll.Length < 0 {
		return nil, pricing.ErrInsufficientStock
	}

	var refID *string
	if input.ReferenceID != "" {
		refID = &input.ReferenceID
	}
	var refType *string
	if input.ReferenceType != "" {
		refType = &input.ReferenceType
	}
	var createdBy *string
	if input.UserID != "" && input.UserID != "system" {
		createdBy = &input.UserID
	}

	movementType := "adjustment"
	switch input.ReferenceType {
	case "order":
		movementType = "order"
	case "restock":
		movementType = "restock"
	}

	movement := &model.StockMovement{
		ID:            uuid.New().String(),
		ShopID:        input.ShopID,
		MaterialID:    input.MaterialID,
		RollID:        roll.ID,
		MovementType:  movementType,
		LengthChange:  input.LengthChange,
		LengthBefore:  lengthBefore,
		LengthAfter:   roll.Length,
		ReferenceType: refType,
		ReferenceID:   refID,
		Notes:         input.Reason,
		CreatedBy:     createdBy,
		CreatedAt:     now,
	}

	if err := uc.repo.AdjustRollWithMovement(ctx, roll, movement); err != nil {
		return nil, err
	}
	return roll, nil
}

// DeductForOrder burns the ordered length off the narrowest roll wide enough
// for the print, falling back to the widest one (same rule the quote used).
func (uc *materialUseCase) DeductForOrder(ctx context.Context, shopID, materialID, orderID string, widthCm, lengthMeters float64) error {
	rolls, err := uc.repo.RollsByMaterial(ctx, shopID, materialID)
	if err != nil {
		return err
	}
	if len(rolls) == 0 {
		return ErrRollNotFound
	}

	widths := make([]float64, len(rolls))
	for i, r := range rolls {
		widths[i] = r.Width
	}
	selected := pricing.FindSuitableWidth(widthCm, widths)

	var target *model.Roll
	for i := range rolls {
		if rolls[i].Width == selected {
			target = &rolls[i]
			break
		}
	}
	if target == nil {
		return ErrRollNotFound
	}

	_, err = uc.AdjustStock(ctx, &dto.AdjustStockInput{
		ShopID:        shopID,
		MaterialID:    materialID,
		RollID:        target.ID,
		LengthChange:  -lengthMeters,
		Reason:        "Order consumption",
		ReferenceID:   orderID,
		ReferenceType: "order",
		UserID:        "system",
	})
	return err
}
