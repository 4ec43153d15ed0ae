package dto

import "github.com/atelierprint/printshop-service/internal/model"

type CreateMaterialInput struct {
	ShopID    string
	Name      string
	Type      string
	UnitPrice float64
	Unit      string
	Options   model.OptionTable
}

type UpdateMaterialInput struct {
	ID        string
	ShopID    string
	Name      string
	Type      string
	UnitPrice float64
	Unit      string
	Options   model.OptionTable
	IsActive  bool
}

type CreateRollInput struct {
	ShopID         string
	MaterialID     string
	Width          float64 // cm
	Length         float64 // meters
	Unit           string
	AlertThreshold float64 // meters
}

type AdjustStockInput struct {
	ShopID        string
	MaterialID    string
	RollID        string
	LengthChange  float64 // meters, negative for consumption
	Reason        string
	ReferenceID   string
	ReferenceType string // 'manual_adjustment', 'order', 'restock'
	UserID        string
}
