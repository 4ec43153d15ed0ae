package model

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentHouse    PaymentMethod = "house" // DG orders, always zero amount
)

type Payment struct {
	BaseModel
	ShopID        string        `db:"shop_id" json:"shop_id"`
	OrderID       string        `db:"order_id" json:"order_id"`
	InvoiceNumber string        `db:"invoice_number" json:"invoice_number"`
	Amount        float64       `db:"amount" json:"amount"`
	Method        PaymentMethod `db:"method" json:"method"`
	ReceivedBy    *string       `db:"received_by" json:"received_by"`
	Notes         string        `db:"notes" json:"notes"`
}
