package purchaseorders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/digitales-2024/perucontrol-sub003/pkg/money"
)

type Service interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*PurchaseOrder, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	ListOrders(ctx context.Context, providerID *uuid.UUID, status *OrderStatus) ([]PurchaseOrder, error)
	SetStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (*PurchaseOrder, error)
}

type orderService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &orderService{repo: repo, logger: logger}
}

func (s *orderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*PurchaseOrder, error) {
	if len(req.Products) == 0 {
		return nil, fmt.Errorf("purchase order requires at least one product")
	}

	issue := req.IssueDate
	if issue.IsZero() {
		issue = time.Now()
	}
	currency := req.Currency
	if currency == "" {
		currency = money.PEN
	}

	id := uuid.New()
	products := make([]ProductLine, 0, len(req.Products))
	amounts := make([]money.Line, 0, len(req.Products))
	for i, pr := range req.Products {
		amounts = append(amounts, money.Line{Quantity: pr.Quantity, UnitPrice: pr.UnitPrice})
		products = append(products, ProductLine{
			ID:              uuid.New(),
			PurchaseOrderID: id,
			Ordinal:         i + 1,
			Description:     pr.Description,
			Unit:            pr.Unit,
			Quantity:        pr.Quantity,
			UnitPrice:       pr.UnitPrice,
			Amount:          money.Round2(pr.Quantity * pr.UnitPrice),
		})
	}
	subtotal, tax, total := money.Totals(amounts)

	order := &PurchaseOrder{
		ID:           id,
		ProviderID:   req.ProviderID,
		IssueDate:    issue,
		Currency:     currency,
		PaymentTerms: req.PaymentTerms,
		DeliveryAddr: req.DeliveryAddr,
		Status:       StatusOpen,
		Subtotal:     subtotal,
		Tax:          tax,
		Total:        total,
		Products:     products,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create purchase order: %w", err)
	}

	s.logger.Info("Purchase order created",
		zap.String("order_id", order.ID.String()),
		zap.Float64("total", order.Total))

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *orderService) ListOrders(ctx context.Context, providerID *uuid.UUID, status *OrderStatus) ([]PurchaseOrder, error) {
	return s.repo.List(ctx, providerID, status)
}

func (s *orderService) SetStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (*PurchaseOrder, error) {
	switch status {
	case StatusOpen, StatusReceived, StatusCancelled:
	default:
		return nil, fmt.Errorf("invalid target status %q", status)
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("purchase order not found")
	}

	order.Status = status
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update purchase order: %w", err)
	}

	return order, nil
}
