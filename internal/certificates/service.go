package certificates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/digitales-2024/perucontrol-sub003/internal/projects"
)

const defaultValidityDays = 30

type Service interface {
	IssueCertificate(ctx context.Context, req IssueCertificateRequest) (*Certificate, error)
	GetCertificate(ctx context.Context, id uuid.UUID) (*Certificate, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Certificate, error)
	ListCertificates(ctx context.Context) ([]Certificate, error)
	VoidCertificate(ctx context.Context, id uuid.UUID) (*Certificate, error)
}

type service struct {
	repo     Repository
	projects projects.Repository
	logger   *zap.Logger
}

func NewService(repo Repository, projectsRepo projects.Repository, logger *zap.Logger) Service {
	return &service{repo: repo, projects: projectsRepo, logger: logger}
}

func (s *service) IssueCertificate(ctx context.Context, req IssueCertificateRequest) (*Certificate, error) {
	appt, err := s.projects.GetAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}
	if appt == nil {
		return nil, fmt.Errorf("appointment %s not found", req.AppointmentID)
	}
	if appt.Status != projects.AppointmentDone {
		return nil, fmt.Errorf("appointment %s has not been performed yet", req.AppointmentID)
	}

	existing, err := s.repo.GetByAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("appointment %s already has certificate %s", req.AppointmentID, existing.Number)
	}

	issue := time.Now()
	if req.IssueDate != nil {
		issue = *req.IssueDate
	}
	validity := req.ValidityDays
	if validity <= 0 {
		validity = defaultValidityDays
	}

	cert := &Certificate{
		AppointmentID: req.AppointmentID,
		Number:        req.Number,
		IssueDate:     issue,
		ExpiryDate:    issue.AddDate(0, 0, validity),
		Status:        StatusIssued,
	}
	if err := s.repo.Create(ctx, cert); err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	// Record the number on the appointment so schedules can show it.
	appt.CertificateNumber = &cert.Number
	if err := s.projects.UpdateAppointment(ctx, appt); err != nil {
		s.logger.Warn("failed to backfill certificate number on appointment",
			zap.String("appointment_id", appt.ID.String()), zap.Error(err))
	}

	s.logger.Info("certificate issued",
		zap.String("certificate_id", cert.ID.String()),
		zap.String("number", cert.Number))
	return cert, nil
}

func (s *service) GetCertificate(ctx context.Context, id uuid.UUID) (*Certificate, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Certificate, error) {
	return s.repo.GetByAppointment(ctx, appointmentID)
}

func (s *service) ListCertificates(ctx context.Context) ([]Certificate, error) {
	return s.repo.List(ctx)
}

func (s *service) VoidCertificate(ctx context.Context, id uuid.UUID) (*Certificate, error) {
	cert, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, fmt.Errorf("certificate %s not found", id)
	}
	cert.Status = StatusVoided
	if err := s.repo.Update(ctx, cert); err != nil {
		return nil, err
	}
	return cert, nil
}
