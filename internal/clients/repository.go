package clients

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, client *Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	List(ctx context.Context, activeOnly bool) ([]Client, error)
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, client *Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	var client Client
	err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *gormRepository) List(ctx context.Context, activeOnly bool) ([]Client, error) {
	var clients []Client
	q := r.db.WithContext(ctx).Order("business_name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&clients).Error
	return clients, err
}

func (r *gormRepository) Update(ctx context.Context, client *Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Client{}, "id = ?", id).Error
}
