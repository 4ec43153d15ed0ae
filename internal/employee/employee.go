package employee

import (
	"context"

	"github.com/atelierprint/printshop-service/internal/model"
)

type CreateEmployeeInput struct {
	ShopID   string
	FullName string
	Email    string
	Password string
	Role     string
	Phone    string
}

type UpdateEmployeeInput struct {
	ID       string
	ShopID   string
	FullName string
	Role     string
	Phone    string
	IsActive bool
}

type EmployeeFilters struct {
	ShopID   string
	Role     string
	IsActive *bool
	Page     int
	PageSize int
}

type Repository interface {
	Create(ctx context.Context, e *model.Employee) error
	Update(ctx context.Context, e *model.Employee) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Employee, error)
	FindByEmail(ctx context.Context, email string) (*model.Employee, error)
	FindAll(ctx context.Context, filters *EmployeeFilters) ([]model.Employee, int, error)
}

type UseCase interface {
	CreateEmployee(ctx context.Context, input *CreateEmployeeInput) (*model.Employee, error)
	UpdateEmployee(ctx context.Context, input *UpdateEmployeeInput) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, shopID, id string) error
	GetEmployee(ctx context.Context, shopID, id string) (*model.Employee, error)
	ListEmployees(ctx context.Context, filters *EmployeeFilters) ([]model.Employee, int, error)

	// Login verifies credentials and returns a signed bearer token.
	Login(ctx context.Context, email, password string) (string, *model.Employee, error)
}
