package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/atelierprint/printshop-service/internal/client"
	"github.com/atelierprint/printshop-service/internal/model"
	"github.com/atelierprint/printshop-service/pkg/logger"
	"github.com/google/uuid"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrPhoneTaken     = errors.New("a client with this phone already exists")
)

type clientUseCase struct {
	repo   client.Repository
	logger logger.ZapLogger
}

func NewClientUseCase(repo client.Repository, log logger.ZapLogger) client.UseCase {
	return &clientUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *clientUseCase) CreateClient(ctx context.Context, input *client.CreateClientInput) (*model.Client, error) {
	if input.Phone != "" {
		existing, err := uc.repo.FindByPhone(ctx, input.ShopID, input.Phone)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrPhoneTaken
		}
	}

	now := time.Now()
	c := &model.Client{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ShopID:    input.ShopID,
		Name:      input.Name,
		Phone:     optional(input.Phone),
		Email:     optional(input.Email),
		Company:   optional(input.Company),
		Notes:     optional(input.Notes),
		IsActive:  true,
	}

	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *clientUseCase) UpdateClient(ctx context.Context, input *client.UpdateClientInput) (*model.Client, error) {
	c, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.ShopID != input.ShopID {
		return nil, ErrClientNotFound
	}

	c.Name = input.Name
	c.Phone = optional(input.Phone)
	c.Email = optional(input.Email)
	c.Company = optional(input.Company)
	c.Notes = optional(input.Notes)
	c.IsActive = input.IsActive
	c.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *clientUseCase) DeleteClient(ctx context.Context, shopID, id string) error {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil || c.ShopID != shopID {
		return nil // Already deleted
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *clientUseCase) GetClient(ctx context.Context, shopID, id string) (*model.Client, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.ShopID != shopID {
		return nil, ErrClientNotFound
	}
	return c, nil
}

func (uc *clientUseCase) ListClients(ctx context.Context, filters *client.ClientFilters) ([]model.Client, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
