package dto

type OrderFilters struct {
	ShopID      string
	Status      string
	ClientID    string
	SearchQuery string // order number or client name
	SortBy      string // number, total, created_at
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}
