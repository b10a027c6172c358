package purchaseorders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, order *PurchaseOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	List(ctx context.Context, providerID *uuid.UUID, status *OrderStatus) ([]PurchaseOrder, error)
	Update(ctx context.Context, order *PurchaseOrder) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, order *PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error) {
	var order PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Provider").
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal") }).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) List(ctx context.Context, providerID *uuid.UUID, status *OrderStatus) ([]PurchaseOrder, error) {
	var orders []PurchaseOrder
	q := r.db.WithContext(ctx).Preload("Provider").Order("number DESC")
	if providerID != nil {
		q = q.Where("provider_id = ?", *providerID)
	}
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	err := q.Find(&orders).Error
	return orders, err
}

func (r *gormRepository) Update(ctx context.Context, order *PurchaseOrder) error {
	return r.db.WithContext(ctx).Omit("Provider", "Products").Save(order).Error
}
