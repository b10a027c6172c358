package quotations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, quotation *Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Quotation, error)
	List(ctx context.Context, clientID *uuid.UUID, status *QuotationStatus) ([]Quotation, error)
	Update(ctx context.Context, quotation *Quotation) error
	ReplaceLines(ctx context.Context, quotationID uuid.UUID, lines []QuotationLine) error
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, quotation *Quotation) error {
	return r.db.WithContext(ctx).Create(quotation).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	var quotation Quotation
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal") }).
		First(&quotation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *gormRepository) List(ctx context.Context, clientID *uuid.UUID, status *QuotationStatus) ([]Quotation, error) {
	var quotations []Quotation
	q := r.db.WithContext(ctx).Preload("Client").Order("number DESC")
	if clientID != nil {
		q = q.Where("client_id = ?", *clientID)
	}
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	err := q.Find(&quotations).Error
	return quotations, err
}

func (r *gormRepository) Update(ctx context.Context, quotation *Quotation) error {
	return r.db.WithContext(ctx).Omit("Client", "Lines").Save(quotation).Error
}

func (r *gormRepository) ReplaceLines(ctx context.Context, quotationID uuid.UUID, lines []QuotationLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quotation_id = ?", quotationID).Delete(&QuotationLine{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
}

func (r *gormRepository) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Quotation{}).
		Where("status = ? AND expiry_date < ?", StatusPending, cutoff).
		Update("status", StatusExpired)
	return res.RowsAffected, res.Error
}
