package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type NotificationType string

const (
	NotifNewOrder           NotificationType = "new_order"
	NotifPaymentReady       NotificationType = "payment_ready"
	NotifProductionComplete NotificationType = "production_complete"
	NotifOrderComplete      NotificationType = "order_complete"
)

// NotificationMeta carries the values the title/description templates are
// rendered from. Stored as JSONB alongside the rendered text so consumers
// can still filter on the raw fields.
type NotificationMeta struct {
	OrderID          string  `json:"order_id,omitempty"`
	OrderNumber      string  `json:"order_number,omitempty"`
	ClientName       string  `json:"client_name,omitempty"`
	Amount           float64 `json:"amount,omitempty"`
	ProductionStatus string  `json:"production_status,omitempty"`
}

func (m NotificationMeta) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *NotificationMeta) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = NotificationMeta{}
		return nil
	default:
		return fmt.Errorf("unsupported type for NotificationMeta: %T", src)
	}
}

type Notification struct {
	ID          string           `db:"id" json:"id"`
	ShopID      string           `db:"shop_id" json:"shop_id"`
	Type        NotificationType `db:"type" json:"type"`
	Title       string           `db:"title" json:"title"`
	Description string           `db:"description" json:"description"`
	FromRole    string           `db:"from_role" json:"from_role"`
	ToRole      string           `db:"to_role" json:"to_role"`
	Meta        NotificationMeta `db:"meta" json:"meta"`
	Read        bool             `db:"read" json:"read"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}
