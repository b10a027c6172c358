package certificates

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, cert *Certificate) error
	GetByID(ctx context.Context, id uuid.UUID) (*Certificate, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Certificate, error)
	List(ctx context.Context) ([]Certificate, error)
	Update(ctx context.Context, cert *Certificate) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, cert *Certificate) error {
	return r.db.WithContext(ctx).Create(cert).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Certificate, error) {
	var cert Certificate
	err := r.db.WithContext(ctx).First(&cert, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *gormRepository) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Certificate, error) {
	var cert Certificate
	err := r.db.WithContext(ctx).First(&cert, "appointment_id = ?", appointmentID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *gormRepository) List(ctx context.Context) ([]Certificate, error) {
	var certs []Certificate
	err := r.db.WithContext(ctx).Order("issue_date DESC").Find(&certs).Error
	return certs, err
}

func (r *gormRepository) Update(ctx context.Context, cert *Certificate) error {
	return r.db.WithContext(ctx).Save(cert).Error
}
