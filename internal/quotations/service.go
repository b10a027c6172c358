package quotations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/digitales-2024/perucontrol-sub003/pkg/money"
)

type Service interface {
	CreateQuotation(ctx context.Context, req CreateQuotationRequest) (*Quotation, error)
	GetQuotation(ctx context.Context, id uuid.UUID) (*Quotation, error)
	ListQuotations(ctx context.Context, clientID *uuid.UUID, status *QuotationStatus) ([]Quotation, error)
	UpdateQuotation(ctx context.Context, id uuid.UUID, req UpdateQuotationRequest) (*Quotation, error)
	SetStatus(ctx context.Context, id uuid.UUID, status QuotationStatus) (*Quotation, error)
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
}

type quotationService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &quotationService{repo: repo, logger: logger}
}

func buildLines(quotationID uuid.UUID, reqs []LineRequest) ([]QuotationLine, []money.Line) {
	lines := make([]QuotationLine, 0, len(reqs))
	amounts := make([]money.Line, 0, len(reqs))
	for i, lr := range reqs {
		amounts = append(amounts, money.Line{Quantity: lr.Quantity, UnitPrice: lr.UnitPrice})
		lines = append(lines, QuotationLine{
			ID:          uuid.New(),
			QuotationID: quotationID,
			Ordinal:     i + 1,
			Description: lr.Description,
			Quantity:    lr.Quantity,
			UnitPrice:   lr.UnitPrice,
			Amount:      money.Round2(lr.Quantity * lr.UnitPrice),
		})
	}
	return lines, amounts
}

func (s *quotationService) CreateQuotation(ctx context.Context, req CreateQuotationRequest) (*Quotation, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("quotation requires at least one line")
	}

	issue := req.IssueDate
	if issue.IsZero() {
		issue = time.Now()
	}
	expiry := req.ExpiryDate
	if expiry.IsZero() {
		expiry = issue.AddDate(0, 0, 15)
	}
	if !expiry.After(issue) {
		return nil, fmt.Errorf("expiry date must be after issue date")
	}

	currency := req.Currency
	if currency == "" {
		currency = money.PEN
	}

	id := uuid.New()
	lines, amounts := buildLines(id, req.Lines)
	subtotal, tax, total := money.Totals(amounts)

	quotation := &Quotation{
		ID:           id,
		ClientID:     req.ClientID,
		IssueDate:    issue,
		ExpiryDate:   expiry,
		Currency:     currency,
		PaymentTerms: req.PaymentTerms,
		Notes:        req.Notes,
		Status:       StatusPending,
		Subtotal:     subtotal,
		Tax:          tax,
		Total:        total,
		Lines:        lines,
	}

	if err := s.repo.Create(ctx, quotation); err != nil {
		return nil, fmt.Errorf("failed to create quotation: %w", err)
	}

	s.logger.Info("Quotation created",
		zap.String("quotation_id", quotation.ID.String()),
		zap.Float64("total", quotation.Total))

	return quotation, nil
}

func (s *quotationService) GetQuotation(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *quotationService) ListQuotations(ctx context.Context, clientID *uuid.UUID, status *QuotationStatus) ([]Quotation, error) {
	return s.repo.List(ctx, clientID, status)
}

func (s *quotationService) UpdateQuotation(ctx context.Context, id uuid.UUID, req UpdateQuotationRequest) (*Quotation, error) {
	quotation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, fmt.Errorf("quotation not found")
	}
	if quotation.Status != StatusPending {
		return nil, fmt.Errorf("only pending quotations can be edited")
	}

	if req.ExpiryDate != nil {
		quotation.ExpiryDate = *req.ExpiryDate
	}
	if req.PaymentTerms != nil {
		quotation.PaymentTerms = *req.PaymentTerms
	}
	if req.Notes != nil {
		quotation.Notes = *req.Notes
	}
	if req.Lines != nil {
		if len(*req.Lines) == 0 {
			return nil, fmt.Errorf("quotation requires at least one line")
		}
		lines, amounts := buildLines(quotation.ID, *req.Lines)
		quotation.Subtotal, quotation.Tax, quotation.Total = money.Totals(amounts)
		if err := s.repo.ReplaceLines(ctx, quotation.ID, lines); err != nil {
			return nil, fmt.Errorf("failed to replace lines: %w", err)
		}
		quotation.Lines = lines
	}

	if err := s.repo.Update(ctx, quotation); err != nil {
		return nil, fmt.Errorf("failed to update quotation: %w", err)
	}

	return quotation, nil
}

func (s *quotationService) SetStatus(ctx context.Context, id uuid.UUID, status QuotationStatus) (*Quotation, error) {
	switch status {
	case StatusAccepted, StatusRejected, StatusPending:
	default:
		return nil, fmt.Errorf("invalid target status %q", status)
	}

	quotation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, fmt.Errorf("quotation not found")
	}

	quotation.Status = status
	if err := s.repo.Update(ctx, quotation); err != nil {
		return nil, fmt.Errorf("failed to update quotation: %w", err)
	}

	return quotation, nil
}

// ExpirePending marks pending quotations past their expiry date.
// Invoked by the cron scheduler.
func (s *quotationService) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repo.ExpirePendingBefore(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire quotations: %w", err)
	}
	if n > 0 {
		s.logger.Info("Expired pending quotations", zap.Int64("count", n))
	}
	return n, nil
}
