package material

import (
	"context"

	"github.com/atelierprint/printshop-service/internal/material/dto"
	"github.com/atelierprint/printshop-service/internal/model"
)

type Repository interface {
	// Materials
	Create(ctx context.Context, m *model.Material) error
	Update(ctx context.Context, m *model.Material) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Material, error)
	FindAll(ctx context.Context, filters *dto.MaterialFilters) ([]model.Material, int, error)

	// Rolls (stock)
	CreateRoll(ctx context.Context, r *model.Roll) error
	GetRoll(ctx context.Context, id string) (*model.Roll, error)
	RollsByMaterial(ctx context.Context, shopID, materialID string) ([]model.Roll, error)
	FindRolls(ctx context.Context, filters *dto.RollFilters) ([]model.Roll, int, error)

	// Movements / Audit
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)

	// Transaction support
	AdjustRollWithMovement(ctx context.Context, roll *model.Roll, movement *model.StockMovement) error
}
