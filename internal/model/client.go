package model

type Client struct {
	BaseModel
	ShopID   string  `db:"shop_id" json:"shop_id"`
	Name     string  `db:"name" json:"name"`
	Phone    *string `db:"phone" json:"phone"`
	Email    *string `db:"email" json:"email"`
	Company  *string `db:"company" json:"company"`
	Notes    *string `db:"notes" json:"notes"`
	IsActive bool    `db:"is_active" json:"is_active"`
}
