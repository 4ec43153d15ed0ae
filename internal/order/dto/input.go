package dto

import "github.com/atelierprint/printshop-service/internal/model"

type CreateOrderInput struct {
	ShopID     string
	ClientID   string
	ClientName string
	MaterialID string
	WidthCm    float64
	LengthCm   float64
	Quantity   int
	Options    model.SelectedOptions
	Special    bool // DG / house order, billed at zero
	Notes      string
	UserID     string
	UserRole   string
}

type QuoteInput struct {
	ShopID     string
	MaterialID string
	WidthCm    float64
	LengthCm   float64
	Quantity   int
	Options    model.SelectedOptions
	Special    bool
}

type UpdateStatusInput struct {
	ID       string
	ShopID   string
	Status   model.OrderStatus
	UserID   string
	UserRole string
}
