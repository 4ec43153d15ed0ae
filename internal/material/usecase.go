package material

import (
	"context"

	"github.com/atelierprint/printshop-service/internal/material/dto"
	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/atelierprint/printshop-service/internal/pricing"
)

type UseCase interface {
	CreateMaterial(ctx context.Context, input *dto.CreateMaterialInput) (*model.Material, error)
	UpdateMaterial(ctx context.Context, input *dto.UpdateMaterialInput) (*model.Material, error)
	DeleteMaterial(ctx context.Context, id string) error
	GetMaterial(ctx context.Context, shopID, id string) (*model.Material, error)
	ListMaterials(ctx context.Context, filters *dto.MaterialFilters) ([]model.Material, int, error)

	AddRoll(ctx context.Context, input *dto.CreateRollInput) (*model.Roll, error)
	ListLowStock(ctx context.Context, shopID string, page, pageSize int) ([]model.Roll, int, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)

	// StockSnapshot aggregates a material's rolls into the advisory snapshot
	// the pricing engine consumes.
	StockSnapshot(ctx context.Context, shopID, materialID string) (pricing.Stock, []model.Roll, error)
	CheckStock(ctx context.Context, shopID, materialID string, lengthCm float64, quantity int) (pricing.StockCheckResult, error)

	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Roll, error)
	DeductForOrder(ctx context.Context, shopID, materialID, orderID string, widthCm, lengthMeters float64) error
}
