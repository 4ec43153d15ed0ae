package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type OptionType string

const (
	OptionFixed   OptionType = "fixed"
	OptionPerSqm  OptionType = "per_sqm"
	OptionPerUnit OptionType = "per_unit"
)

// MaterialOption is one finishing option a material offers (lamination,
// eyelets, cutting...). Free options are listed for the UI but never billed.
type MaterialOption struct {
	Type   OptionType `json:"type"`
	Price  float64    `json:"price"`
	IsFree bool       `json:"is_free"`
}

// OptionTable maps option name to its pricing rule. Stored as JSONB.
type OptionTable map[string]MaterialOption

func (t OptionTable) Value() (driver.Value, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(t)
}

func (t *OptionTable) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	case nil:
		*t = OptionTable{}
		return nil
	default:
		return fmt.Errorf("unsupported type for OptionTable: %T", src)
	}
}

type Material struct {
	BaseModel
	ShopID    string      `db:"shop_id" json:"shop_id"`
	Name      string      `db:"name" json:"name"`
	Type      string      `db:"type" json:"type"`
	UnitPrice float64     `db:"unit_price" json:"unit_price"`
	Unit      string      `db:"unit" json:"unit"` // price unit, e.g. "m2"
	Options   OptionTable `db:"options" json:"options"`
	IsActive  bool        `db:"is_active" json:"is_active"`
	Rolls     []Roll      `db:"-" json:"rolls"` // Joined data
}

// Roll is one physical roll of print material ("rouleau"), the stock unit.
// Width is in centimeters, Length and AlertThreshold in meters.
type Roll struct {
	ID             string    `db:"id" json:"id"`
	ShopID         string    `db:"shop_id" json:"shop_id"`
	MaterialID     string    `db:"material_id" json:"material_id"`
	Width          float64   `db:"width" json:"width"`
	Length         float64   `db:"length" json:"length"`
	Unit           string    `db:"unit" json:"unit"`
	AlertThreshold float64   `db:"alert_threshold" json:"alert_threshold"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type StockMovement struct {
	ID            string    `db:"id" json:"id"`
	ShopID        string    `db:"shop_id" json:"shop_id"`
	MaterialID    string    `db:"material_id" json:"material_id"`
	RollID        string    `db:"roll_id" json:"roll_id"`
	MovementType  string    `db:"movement_type" json:"movement_type"` // 'adjustment', 'order', 'restock'
	LengthChange  float64   `db:"length_change" json:"length_change"`
	LengthBefore  float64   `db:"length_before" json:"length_before"`
	LengthAfter   float64   `db:"length_after" json:"length_after"`
	ReferenceType *string   `db:"reference_type" json:"reference_type"`
	ReferenceID   *string   `db:"reference_id" json:"reference_id"`
	Notes         string    `db:"notes" json:"notes"`
	CreatedBy     *string   `db:"created_by" json:"created_by"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
