package usecase

import (
	"context"
	"time"

	"github.com/atelierprint/printshop-service/internal/auth"
	"github.com/atelierprint/printshop-service/internal/employee"
	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmailTaken         = errors.New("an employee with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownRole        = errors.New("unknown role")
)

type employeeUseCase struct {
	repo      employee.Repository
	jwtSecret string
	jwtTTL    time.Duration
	logger    logger.ZapLogger
}

func NewEmployeeUseCase(repo employee.Repository, jwtSecret string, jwtTTL time.Duration, log logger.ZapLogger) employee.UseCase {
	return &employeeUseCase{
		repo:      repo,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
		logger:    log,
	}
}

func (uc *employeeUseCase) CreateEmployee(ctx context.Context, input *employee.CreateEmployeeInput) (*model.Employee, error) {
	if _, ok := auth.ParseRole(input.Role); !ok {
		return nil, errors.Wrap(ErrUnknownRole, input.Role)
	}

	existing, err := uc.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	now := time.Now()
	var phone *string
	if input.Phone != "" {
		phone = &input.Phone
	}

	e := &model.Employee{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ShopID:       input.ShopID,
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		Phone:        phone,
		IsActive:     true,
	}

	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (uc *employeeUseCase) UpdateEmployee(ctx context.Context, input *employee.UpdateEmployeeInput) (*model.Employee, error) {
	e, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if e == nil || e.ShopID != input.ShopID {
		return nil, ErrEmployeeNotFound
	}

	if _, ok := auth.ParseRole(input.Role); !ok {
		return nil, errors.Wrap(ErrUnknownRole, input.Role)
	}

	e.FullName = input.FullName
	e.Role = input.Role
	if input.Phone != "" {
		e.Phone = &input.Phone
	} else {
		e.Phone = nil
	}
	e.IsActive = input.IsActive
	e.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (uc *employeeUseCase) DeleteEmployee(ctx context.Context, shopID, id string) error {
	e, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil || e.ShopID != shopID {
		return nil // Already deleted
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *employeeUseCase) GetEmployee(ctx context.Context, shopID, id string) (*model.Employee, error) {
	e, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil || e.ShopID != shopID {
		return nil, ErrEmployeeNotFound
	}
	return e, nil
}

func (uc *employeeUseCase) ListEmployees(ctx context.Context, filters *employee.EmployeeFilters) ([]model.Employee, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *employeeUseCase) Login(ctx context.Context, email, password string) (string, *model.Employee, error) {
	e, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if e == nil || !e.IsActive {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	role, ok := auth.ParseRole(e.Role)
	if !ok {
		return "", nil, errors.Wrap(ErrUnknownRole, e.Role)
	}

	token, err := auth.IssueToken(uc.jwtSecret, uc.jwtTTL, auth.UserContext{
		ShopID: e.ShopID,
		UserID: e.ID,
		Role:   role,
	})
	if err != nil {
		return "", nil, errors.Wrap(err, "sign token")
	}
	return token, e, nil
}
