package client

import (
	"context"
	"testing"

	"github.com/inspection-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Put(ctx context.Context, c *domain.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) Get(ctx context.Context, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if c, _ := args.Get(0).(*domain.Client); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) ListByCompany(ctx context.Context, companyID string) ([]domain.Client, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, clientID string, updates map[string]interface{}) error {
	return m.Called(ctx, clientID, updates).Error(0)
}

func TestCreate_AssignsIDAndTimestamps(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Put", mock.Anything, mock.MatchedBy(func(c *domain.Client) bool {
		return c.ClientID != "" && !c.CreatedAt.IsZero() && c.CreatedAt.Equal(c.UpdatedAt)
	})).Return(nil)
	svc := NewService(repo)

	c, err := svc.Create(context.Background(), CreateClientRequest{CompanyID: "co1", Name: "Alice Smith"})
	require.NoError(t, err)
	assert.Equal(t, "co1", c.CompanyID)
	assert.NotEmpty(t, c.ClientID)
	repo.AssertExpectations(t)
}

func TestUpdate_OnlyNonNilFields(t *testing.T) {
	repo := &mockRepo{}
	name := "Alice Jones"
	repo.On("Update", mock.Anything, "c1", map[string]interface{}{"name": name}).Return(nil)
	repo.On("Get", mock.Anything, "c1").Return(&domain.Client{ClientID: "c1", Name: name}, nil)
	svc := NewService(repo)

	c, err := svc.Update(context.Background(), "c1", UpdateClientRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, c.Name)
	repo.AssertExpectations(t)
}

func TestUpdate_NoFields_IsBadRequest(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), "c1", UpdateClientRequest{})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	repo.AssertNotCalled(t, "Update")
}
