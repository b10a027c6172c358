package quotations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, quotation *Quotation) error {
	args := m.Called(ctx, quotation)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Quotation), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, clientID *uuid.UUID, status *QuotationStatus) ([]Quotation, error) {
	args := m.Called(ctx, clientID, status)
	return args.Get(0).([]Quotation), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, quotation *Quotation) error {
	args := m.Called(ctx, quotation)
	return args.Error(0)
}

func (m *MockRepository) ReplaceLines(ctx context.Context, quotationID uuid.UUID, lines []QuotationLine) error {
	args := m.Called(ctx, quotationID, lines)
	return args.Error(0)
}

func (m *MockRepository) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func TestCreateQuotationComputesTotals(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*quotations.Quotation")).Return(nil)

	quotation, err := service.CreateQuotation(ctx, CreateQuotationRequest{
		ClientID: uuid.New(),
		Lines: []LineRequest{
			{Description: "Fumigación de oficinas", Quantity: 2, UnitPrice: 10.00},
			{Description: "Desratización", Quantity: 1, UnitPrice: 20.00},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 40.00, quotation.Subtotal)
	assert.Equal(t, 7.20, quotation.Tax)
	assert.Equal(t, 47.20, quotation.Total)
	assert.Equal(t, StatusPending, quotation.Status)
	assert.Len(t, quotation.Lines, 2)
	assert.Equal(t, 1, quotation.Lines[0].Ordinal)
	assert.Equal(t, 20.00, quotation.Lines[0].Amount)

	mockRepo.AssertExpectations(t)
}

func TestCreateQuotationRequiresLines(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	_, err := service.CreateQuotation(context.Background(), CreateQuotationRequest{ClientID: uuid.New()})

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestUpdateQuotationRejectsNonPending(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	id := uuid.New()
	mockRepo.On("GetByID", ctx, id).Return(&Quotation{ID: id, Status: StatusAccepted}, nil)

	notes := "updated"
	_, err := service.UpdateQuotation(ctx, id, UpdateQuotationRequest{Notes: &notes})

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestSetStatusRejectsInvalid(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	_, err := service.SetStatus(context.Background(), uuid.New(), QuotationStatus("BOGUS"))

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "GetByID")
}

func TestExpirePending(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()
	now := time.Now()

	mockRepo.On("ExpirePendingBefore", ctx, now).Return(int64(3), nil)

	n, err := service.ExpirePending(ctx, now)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	mockRepo.AssertExpectations(t)
}
