package project

import (
	"context"
	"fmt"
	"time"

	"github.com/inspection-api/internal/domain"
	"github.com/inspection-api/internal/pkg/id"
)

type CreateProjectRequest struct {
	CompanyID   string  `json:"company_id" validate:"required"`
	ClientID    *string `json:"client_id"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=active on-hold finished"`
}

// Repo is the keyed-table store for projects.
type Repo interface {
	Put(ctx context.Context, p *domain.Project) error
	Get(ctx context.Context, projectID string) (*domain.Project, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.Project, error)
	Update(ctx context.Context, projectID string, updates map[string]interface{}) error
}

type Service interface {
	Create(ctx context.Context, req CreateProjectRequest) (*domain.Project, error)
	Get(ctx context.Context, projectID string) (*domain.Project, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.Project, error)
	Update(ctx context.Context, projectID string, req UpdateProjectRequest) (*domain.Project, error)
}

type service struct {
	repo Repo
}

func NewService(repo Repo) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateProjectRequest) (*domain.Project, error) {
	now := time.Now().UTC()
	p := &domain.Project{
		ProjectID:   id.New(),
		CompanyID:   req.CompanyID,
		ClientID:    req.ClientID,
		Name:        req.Name,
		Description: req.Description,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.repo.Get(ctx, projectID)
}

func (s *service) ListByCompany(ctx context.Context, companyID string) ([]domain.Project, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// Update applies the non-nil fields of req and returns the updated record.
func (s *service) Update(ctx context.Context, projectID string, req UpdateProjectRequest) (*domain.Project, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.repo.Update(ctx, projectID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, projectID)
}
