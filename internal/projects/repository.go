package projects

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	List(ctx context.Context, clientID *uuid.UUID, status *ProjectStatus) ([]Project, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateAppointment(ctx context.Context, appt *Appointment) error
	GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateAppointment(ctx context.Context, appt *Appointment) error
	ListAppointmentsDueBefore(ctx context.Context, cutoff time.Time) ([]Appointment, error)
	ListAppointmentsBetween(ctx context.Context, from, to time.Time) ([]Appointment, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, project *Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	var project Project
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Appointments", func(db *gorm.DB) *gorm.DB { return db.Order("due_date") }).
		First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *gormRepository) List(ctx context.Context, clientID *uuid.UUID, status *ProjectStatus) ([]Project, error) {
	var projects []Project
	q := r.db.WithContext(ctx).Preload("Client").Order("created_at DESC")
	if clientID != nil {
		q = q.Where("client_id = ?", *clientID)
	}
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	err := q.Find(&projects).Error
	return projects, err
}

func (r *gormRepository) Update(ctx context.Context, project *Project) error {
	return r.db.WithContext(ctx).Omit("Client", "Appointments").Save(project).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Project{}, "id = ?", id).Error
}

func (r *gormRepository) CreateAppointment(ctx context.Context, appt *Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

func (r *gormRepository) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	var appt Appointment
	err := r.db.WithContext(ctx).First(&appt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *gormRepository) UpdateAppointment(ctx context.Context, appt *Appointment) error {
	return r.db.WithContext(ctx).Save(appt).Error
}

func (r *gormRepository) ListAppointmentsDueBefore(ctx context.Context, cutoff time.Time) ([]Appointment, error) {
	var appts []Appointment
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", AppointmentScheduled, cutoff).
		Find(&appts).Error
	return appts, err
}

func (r *gormRepository) ListAppointmentsBetween(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	var appts []Appointment
	err := r.db.WithContext(ctx).
		Where("due_date >= ? AND due_date < ?", from, to).
		Order("due_date").
		Find(&appts).Error
	return appts, err
}
