package client

import (
	"context"

	"github.com/atelierprint/printshop-service/internal/model"
)

type CreateClientInput struct {
	ShopID  string
	Name    string
	Phone   string
	Email   string
	Company string
	Notes   string
}

type UpdateClientInput struct {
	ID       string
	ShopID   string
	Name     string
	Phone    string
	Email    string
	Company  string
	Notes    string
	IsActive bool
}

type ClientFilters struct {
	ShopID   string
	IsActive *bool
	Search   string // name, phone or company
	Page     int
	PageSize int
}

type Repository interface {
	Create(ctx context.Context, c *model.Client) error
	Update(ctx context.Context, c *model.Client) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Client, error)
	FindByPhone(ctx context.Context, shopID, phone string) (*model.Client, error)
	FindAll(ctx context.Context, filters *ClientFilters) ([]model.Client, int, error)
}

type UseCase interface {
	CreateClient(ctx context.Context, input *CreateClientInput) (*model.Client, error)
	UpdateClient(ctx context.Context, input *UpdateClientInput) (*model.Client, error)
	DeleteClient(ctx context.Context, shopID, id string) error
	GetClient(ctx context.Context, shopID, id string) (*model.Client, error)
	ListClients(ctx context.Context, filters *ClientFilters) ([]model.Client, int, error)
}
