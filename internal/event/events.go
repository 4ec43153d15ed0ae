package event

import "time"

// Event types carried on the orders and payments topics.
const (
	OrderCreated       = "OrderCreated"
	ProductionComplete = "ProductionComplete"
	OrderCompleted     = "OrderCompleted"
	PaymentReceived    = "PaymentReceived"
)

type OrderPayload struct {
	ID                 string  `json:"id"`
	ShopID             string  `json:"shop_id"`
	Number             string  `json:"number"`
	ClientName         string  `json:"client_name"`
	MaterialID         string  `json:"material_id"`
	WidthCm            float64 `json:"width_cm"`
	MaterialLengthUsed float64 `json:"material_length_used"`
	TotalPrice         float64 `json:"total_price"`
	Status             string  `json:"status"`
	CreatedByRole      string  `json:"created_by_role"`
}

type OrderEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type PaymentPayload struct {
	ID            string  `json:"id"`
	ShopID        string  `json:"shop_id"`
	OrderID       string  `json:"order_id"`
	OrderNumber   string  `json:"order_number"`
	ClientName    string  `json:"client_name"`
	InvoiceNumber string  `json:"invoice_number"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
}

type PaymentEvent struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	Payload   PaymentPayload `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}
