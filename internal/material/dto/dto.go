package dto

type MaterialFilters struct {
	ShopID   string
	Type     string
	IsActive *bool
	Search   string
	Page     int
	PageSize int
}

type RollFilters struct {
	ShopID     string
	MaterialID string
	LowStock   bool // if true, filter by length < alert_threshold
	Page       int
	PageSize   int
}

type MovementFilters struct {
	ShopID       string
	MaterialID   string
	RollID       string
	MovementType string
	Page         int
	PageSize     int
}
