package client

import (
	"context"
	"fmt"
	"time"

	"github.com/inspection-api/internal/domain"
	"github.com/inspection-api/internal/pkg/id"
)

type CreateClientRequest struct {
	CompanyID string  `json:"company_id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,e164"`
	Address   *string `json:"address"`
}

type UpdateClientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,e164"`
	Address *string `json:"address"`
}

// Repo is the keyed-table store for clients.
type Repo interface {
	Put(ctx context.Context, c *domain.Client) error
	Get(ctx context.Context, clientID string) (*domain.Client, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.Client, error)
	Update(ctx context.Context, clientID string, updates map[string]interface{}) error
}

type Service interface {
	Create(ctx context.Context, req CreateClientRequest) (*domain.Client, error)
	Get(ctx context.Context, clientID string) (*domain.Client, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.Client, error)
	Update(ctx context.Context, clientID string, req UpdateClientRequest) (*domain.Client, error)
}

type service struct {
	repo Repo
}

func NewService(repo Repo) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateClientRequest) (*domain.Client, error) {
	now := time.Now().UTC()
	c := &domain.Client{
		ClientID:  id.New(),
		CompanyID: req.CompanyID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, clientID string) (*domain.Client, error) {
	return s.repo.Get(ctx, clientID)
}

func (s *service) ListByCompany(ctx context.Context, companyID string) ([]domain.Client, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// Update applies the non-nil fields of req and returns the updated record.
func (s *service) Update(ctx context.Context, clientID string, req UpdateClientRequest) (*domain.Client, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.repo.Update(ctx, clientID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, clientID)
}
