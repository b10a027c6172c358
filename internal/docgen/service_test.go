package docgen

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/digitales-2024/perucontrol-sub003/internal/business"
	"github.com/digitales-2024/perucontrol-sub003/internal/clients"
	"github.com/digitales-2024/perucontrol-sub003/internal/purchaseorders"
	"github.com/digitales-2024/perucontrol-sub003/pkg/money"
)

type MockTemplateStore struct {
	mock.Mock
}

func (m *MockTemplateStore) Get(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Convert(ctx context.Context, data []byte, fromExt, toExt string) ([]byte, error) {
	args := m.Called(ctx, data, fromExt, toExt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockProfileSource struct {
	mock.Mock
}

func (m *MockProfileSource) Get(ctx context.Context) (*business.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.Profile), args.Error(1)
}

type MockOrderSource struct {
	mock.Mock
}

func (m *MockOrderSource) GetByID(ctx context.Context, id uuid.UUID) (*purchaseorders.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchaseorders.PurchaseOrder), args.Error(1)
}

type MockClientSource struct {
	mock.Mock
}

func (m *MockClientSource) GetByID(ctx context.Context, id uuid.UUID) (*clients.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.Client), args.Error(1)
}

func testOrder() *purchaseorders.PurchaseOrder {
	return &purchaseorders.PurchaseOrder{
		ID:        uuid.New(),
		Number:    7,
		IssueDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Provider:  clients.Client{BusinessName: "Proveedora Andina", TaxID: "20456789012"},
		Currency:  money.PEN,
		Subtotal:  40.00,
		Tax:       7.20,
		Total:     47.20,
		Products: []purchaseorders.ProductLine{
			{Description: "Raticida", Quantity: 2, UnitPrice: 10, Amount: 20},
			{Description: "Insecticida", Quantity: 1, UnitPrice: 20, Amount: 20},
		},
	}
}

func newTestService(store *MockTemplateStore, conv *MockConverter, profiles *MockProfileSource, orders *MockOrderSource, clientSrc *MockClientSource) Service {
	return NewService(Dependencies{
		Templates: store,
		Converter: conv,
		Profiles:  profiles,
		Orders:    orders,
		Clients:   clientSrc,
		Logger:    zap.NewNop(),
	})
}

func TestGeneratePurchaseOrder(t *testing.T) {
	store := new(MockTemplateStore)
	conv := new(MockConverter)
	profiles := new(MockProfileSource)
	orders := new(MockOrderSource)
	svc := newTestService(store, conv, profiles, orders, new(MockClientSource))
	ctx := context.Background()

	order := testOrder()
	orders.On("GetByID", ctx, order.ID).Return(order, nil)
	profiles.On("Get", ctx).Return(&business.Profile{Name: "PeruControl EIRL", TaxID: "20600000001"}, nil)
	store.On("Get", ctx, "purchase-order.ods").Return(buildTemplate(t, orderTableXML), nil)

	doc, err := svc.GeneratePurchaseOrder(ctx, order.ID, "ods")
	require.NoError(t, err)
	assert.Equal(t, "orden-compra-0007.ods", doc.Filename)
	assert.Equal(t, "application/vnd.oasis.opendocument.spreadsheet", doc.ContentType)

	content := readPart(t, doc.Bytes, "content.xml")
	assert.Contains(t, content, "Raticida")
	assert.Contains(t, content, "Insecticida")
	assert.Contains(t, content, "47.20")
	conv.AssertNotCalled(t, "Convert")
}

func TestGeneratePurchaseOrderConvertsToPdf(t *testing.T) {
	store := new(MockTemplateStore)
	conv := new(MockConverter)
	profiles := new(MockProfileSource)
	orders := new(MockOrderSource)
	svc := newTestService(store, conv, profiles, orders, new(MockClientSource))
	ctx := context.Background()

	order := testOrder()
	orders.On("GetByID", ctx, order.ID).Return(order, nil)
	profiles.On("Get", ctx).Return(&business.Profile{Name: "PeruControl EIRL"}, nil)
	store.On("Get", ctx, "purchase-order.ods").Return(buildTemplate(t, orderTableXML), nil)
	conv.On("Convert", ctx, mock.Anything, "ods", "pdf").Return([]byte("%PDF-1.4"), nil)

	doc, err := svc.GeneratePurchaseOrder(ctx, order.ID, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "orden-compra-0007.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, []byte("%PDF-1.4"), doc.Bytes)
}

func TestGeneratePurchaseOrderConverterErrorPropagates(t *testing.T) {
	store := new(MockTemplateStore)
	conv := new(MockConverter)
	profiles := new(MockProfileSource)
	orders := new(MockOrderSource)
	svc := newTestService(store, conv, profiles, orders, new(MockClientSource))
	ctx := context.Background()

	order := testOrder()
	orders.On("GetByID", ctx, order.ID).Return(order, nil)
	profiles.On("Get", ctx).Return(&business.Profile{Name: "PeruControl EIRL"}, nil)
	store.On("Get", ctx, "purchase-order.ods").Return(buildTemplate(t, orderTableXML), nil)
	conv.On("Convert", ctx, mock.Anything, "ods", "pdf").
		Return(nil, &ConversionError{Err: errors.New("soffice crashed")})

	doc, err := svc.GeneratePurchaseOrder(ctx, order.ID, "pdf")
	assert.Nil(t, doc)
	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "soffice crashed", convErr.Error())
}

func TestGeneratePurchaseOrderUnsupportedTarget(t *testing.T) {
	store := new(MockTemplateStore)
	conv := new(MockConverter)
	profiles := new(MockProfileSource)
	orders := new(MockOrderSource)
	svc := newTestService(store, conv, profiles, orders, new(MockClientSource))
	ctx := context.Background()

	order := testOrder()
	orders.On("GetByID", ctx, order.ID).Return(order, nil)
	profiles.On("Get", ctx).Return(&business.Profile{Name: "PeruControl EIRL"}, nil)
	store.On("Get", ctx, "purchase-order.ods").Return(buildTemplate(t, orderTableXML), nil)

	doc, err := svc.GeneratePurchaseOrder(ctx, order.ID, "exe")
	assert.Nil(t, doc)
	var precondition *PreconditionError
	assert.ErrorAs(t, err, &precondition)
	conv.AssertNotCalled(t, "Convert")
}

func TestGeneratePurchaseOrderMissingProfile(t *testing.T) {
	store := new(MockTemplateStore)
	profiles := new(MockProfileSource)
	orders := new(MockOrderSource)
	svc := newTestService(store, new(MockConverter), profiles, orders, new(MockClientSource))
	ctx := context.Background()

	order := testOrder()
	orders.On("GetByID", ctx, order.ID).Return(order, nil)
	profiles.On("Get", ctx).Return(nil, nil)

	doc, err := svc.GeneratePurchaseOrder(ctx, order.ID, "pdf")
	assert.Nil(t, doc)
	var precondition *PreconditionError
	assert.ErrorAs(t, err, &precondition)
	store.AssertNotCalled(t, "Get")
}

func TestGeneratePurchaseOrderMissingTemplate(t *testing.T) {
	store := new(MockTemplateStore)
	profiles := new(MockProfileSource)
	orders := new(MockOrderSource)
	svc := newTestService(store, new(MockConverter), profiles, orders, new(MockClientSource))
	ctx := context.Background()

	order := testOrder()
	orders.On("GetByID", ctx, order.ID).Return(order, nil)
	profiles.On("Get", ctx).Return(&business.Profile{Name: "PeruControl EIRL"}, nil)
	store.On("Get", ctx, "purchase-order.ods").Return(nil, errors.New("no such file"))

	doc, err := svc.GeneratePurchaseOrder(ctx, order.ID, "pdf")
	assert.Nil(t, doc)
	var tmplErr *TemplateError
	assert.ErrorAs(t, err, &tmplErr)
}

func TestGenerateReceipt(t *testing.T) {
	store := new(MockTemplateStore)
	profiles := new(MockProfileSource)
	clientSrc := new(MockClientSource)
	svc := newTestService(store, new(MockConverter), profiles, new(MockOrderSource), clientSrc)
	ctx := context.Background()

	clientID := uuid.New()
	clientSrc.On("GetByID", ctx, clientID).
		Return(&clients.Client{ID: clientID, BusinessName: "ACME SAC"}, nil)
	profiles.On("Get", ctx).Return(&business.Profile{Name: "PeruControl EIRL"}, nil)
	store.On("Get", ctx, "receipt.odt").
		Return(buildTemplate(t, `<text:p>Recibimos de {nombre_cliente}: {monto_en_letras}</text:p>`), nil)

	doc, err := svc.GenerateReceipt(ctx, ReceiptRequest{
		ClientID: clientID,
		Number:   "R-001",
		Concept:  "Adelanto",
		Amount:   1000,
		Currency: money.PEN,
		Date:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}, "odt")
	require.NoError(t, err)
	assert.Equal(t, "recibo-R-001.odt", doc.Filename)

	content := readPart(t, doc.Bytes, "content.xml")
	assert.Contains(t, content, "Recibimos de ACME SAC: MIL CON 00/100 SOLES")
}
