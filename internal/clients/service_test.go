package clients

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, client *Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Client), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, activeOnly bool) ([]Client, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]Client), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, client *Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreateClient(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*clients.Client")).Return(nil)

	client, err := service.CreateClient(ctx, CreateClientRequest{
		TaxID:        "20445566778",
		BusinessName: "Clinica San Pablo SAC",
		Address:      "Av. El Polo 789, Surco",
	})

	assert.NoError(t, err)
	assert.NotNil(t, client)
	assert.True(t, client.IsActive)
	assert.Equal(t, "Clinica San Pablo SAC", client.BusinessName)

	mockRepo.AssertExpectations(t)
}

func TestCreateClientRejectsBadTaxID(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	_, err := service.CreateClient(context.Background(), CreateClientRequest{
		TaxID:        "12345",
		BusinessName: "Bad Tax Co",
	})

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestUpdateClientPatchSemantics(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	id := uuid.New()
	existing := &Client{
		ID:           id,
		TaxID:        "20445566778",
		BusinessName: "Old Name",
		Phone:        "999111222",
		IsActive:     true,
	}

	mockRepo.On("GetByID", ctx, id).Return(existing, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*clients.Client")).Return(nil)

	newName := "New Name"
	updated, err := service.UpdateClient(ctx, id, UpdateClientRequest{BusinessName: &newName})

	assert.NoError(t, err)
	assert.Equal(t, "New Name", updated.BusinessName)
	// Untouched fields keep their values.
	assert.Equal(t, "999111222", updated.Phone)
	assert.True(t, updated.IsActive)

	mockRepo.AssertExpectations(t)
}

func TestUpdateClientNotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	id := uuid.New()
	mockRepo.On("GetByID", ctx, id).Return(nil, nil)

	_, err := service.UpdateClient(ctx, id, UpdateClientRequest{})

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Mi Bodega", Client{BusinessName: "Bodega SAC", TradeName: "Mi Bodega"}.DisplayName())
	assert.Equal(t, "Bodega SAC", Client{BusinessName: "Bodega SAC"}.DisplayName())
}
