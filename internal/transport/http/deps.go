package http

import (
	"context"

	"github.com/inspection-api/internal/domain"
)

// InspectionRepository is the minimal interface the router requires from the
// inspection store.
type InspectionRepository interface {
	Put(ctx context.Context, i *domain.InspectionVideo) error
	GetByToken(ctx context.Context, token string) (*domain.InspectionVideo, error)
	CompleteIfPending(ctx context.Context, inspectionID string, updates map[string]interface{}) (bool, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.InspectionVideo, error)
}

// ClientRepository is the minimal interface the router requires from the
// client store.
type ClientRepository interface {
	Put(ctx context.Context, c *domain.Client) error
	Get(ctx context.Context, clientID string) (*domain.Client, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.Client, error)
	Update(ctx context.Context, clientID string, updates map[string]interface{}) error
}

// ProjectRepository is the minimal interface the router requires from the
// project store.
type ProjectRepository interface {
	Put(ctx context.Context, p *domain.Project) error
	Get(ctx context.Context, projectID string) (*domain.Project, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.Project, error)
	Update(ctx context.Context, projectID string, updates map[string]interface{}) error
}

// CredentialStore is the minimal interface the router requires from the OTP
// record store.
type CredentialStore interface {
	Get(phoneNumber string) (domain.PhoneVerification, bool)
	Set(phoneNumber string, v domain.PhoneVerification)
	Delete(phoneNumber string)
}
