package clients

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	CreateClient(ctx context.Context, req CreateClientRequest) (*Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (*Client, error)
	ListClients(ctx context.Context, activeOnly bool) ([]Client, error)
	UpdateClient(ctx context.Context, id uuid.UUID, req UpdateClientRequest) (*Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error
}

type clientService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &clientService{repo: repo, logger: logger}
}

func (s *clientService) CreateClient(ctx context.Context, req CreateClientRequest) (*Client, error) {
	if l := len(req.TaxID); l != 8 && l != 11 {
		return nil, fmt.Errorf("tax id must be an 8-digit DNI or an 11-digit RUC")
	}

	client := &Client{
		ID:           uuid.New(),
		TaxID:        req.TaxID,
		BusinessName: req.BusinessName,
		TradeName:    req.TradeName,
		ContactName:  req.ContactName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("Client created",
		zap.String("client_id", client.ID.String()),
		zap.String("tax_id", client.TaxID))

	return client, nil
}

func (s *clientService) GetClient(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *clientService) ListClients(ctx context.Context, activeOnly bool) ([]Client, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *clientService) UpdateClient(ctx context.Context, id uuid.UUID, req UpdateClientRequest) (*Client, error) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("client not found")
	}

	if req.BusinessName != nil {
		client.BusinessName = *req.BusinessName
	}
	if req.TradeName != nil {
		client.TradeName = *req.TradeName
	}
	if req.ContactName != nil {
		client.ContactName = *req.ContactName
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if client == nil {
		return fmt.Errorf("client not found")
	}
	return s.repo.Delete(ctx, id)
}
