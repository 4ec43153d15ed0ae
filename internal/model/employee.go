package model

type Employee struct {
	BaseModel
	ShopID       string  `db:"shop_id" json:"shop_id"`
	FullName     string  `db:"full_name" json:"full_name"`
	Email        string  `db:"email" json:"email"`
	PasswordHash string  `db:"password_hash" json:"-"`
	Role         string  `db:"role" json:"role"`
	Phone        *string `db:"phone" json:"phone"`
	IsActive     bool    `db:"is_active" json:"is_active"`
}
