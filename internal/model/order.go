package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type OrderStatus string

const (
	OrderPending      OrderStatus = "pending"
	OrderInProduction OrderStatus = "in_production"
	OrderReady        OrderStatus = "ready"
	OrderDelivered    OrderStatus = "delivered"
	OrderCancelled    OrderStatus = "cancelled"
)

// OptionSelection is the quantity chosen for a named material option.
type OptionSelection struct {
	Quantity float64 `json:"quantity"`
}

type SelectedOptions map[string]OptionSelection

func (s SelectedOptions) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

func (s *SelectedOptions) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = SelectedOptions{}
		return nil
	default:
		return fmt.Errorf("unsupported type for SelectedOptions: %T", src)
	}
}

type Order struct {
	BaseModel
	ShopID     string          `db:"shop_id" json:"shop_id"`
	Number     string          `db:"number" json:"number"`
	ClientID   *string         `db:"client_id" json:"client_id"` // Nullable
	ClientName string          `db:"client_name" json:"client_name"`
	MaterialID string          `db:"material_id" json:"material_id"`
	RollID     string          `db:"roll_id" json:"roll_id"`
	WidthCm    float64         `db:"width_cm" json:"width_cm"`
	LengthCm   float64         `db:"length_cm" json:"length_cm"`
	Quantity   int             `db:"quantity" json:"quantity"`
	Options    SelectedOptions `db:"options" json:"options"`

	// Derived at creation time from the pricing engine.
	SelectedWidth      float64 `db:"selected_width" json:"selected_width"`
	MaterialLengthUsed float64 `db:"material_length_used" json:"material_length_used"`
	AreaSqm            float64 `db:"area_sqm" json:"area_sqm"`
	BasePrice          float64 `db:"base_price" json:"base_price"`
	OptionsCost        float64 `db:"options_cost" json:"options_cost"`
	TotalPrice         float64 `db:"total_price" json:"total_price"`

	// DG ("direction générale") orders are house orders billed at zero.
	Special bool `db:"special" json:"special"`

	Status    OrderStatus `db:"status" json:"status"`
	Notes     *string     `db:"notes" json:"notes"`
	CreatedBy *string     `db:"created_by" json:"created_by"`
}
