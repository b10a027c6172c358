// Package reports builds the operational exports that are not
// template-driven: the appointment schedule as a spreadsheet and the
// project summary as a PDF.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/digitales-2024/perucontrol-sub003/internal/business"
	"github.com/digitales-2024/perucontrol-sub003/internal/projects"
)

type Service interface {
	AppointmentScheduleXLSX(ctx context.Context, from, to time.Time) ([]byte, error)
	ProjectSummaryPDF(ctx context.Context) ([]byte, error)
}

type service struct {
	projects projects.Repository
	profiles business.Repository
	logger   *zap.Logger
}

func NewService(projectsRepo projects.Repository, profiles business.Repository, logger *zap.Logger) Service {
	return &service{projects: projectsRepo, profiles: profiles, logger: logger}
}

// scheduleRow is one line of the appointment schedule, flattened from
// the appointment, its project and the project's client.
type scheduleRow struct {
	Client      string
	Address     string
	DueDate     time.Time
	ActualDate  *time.Time
	Status      projects.AppointmentStatus
	Operator    string
	Certificate string
}

func (s *service) scheduleRows(ctx context.Context, from, to time.Time) ([]scheduleRow, error) {
	appts, err := s.projects.ListAppointmentsBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	projectCache := make(map[uuid.UUID]*projects.Project)
	rows := make([]scheduleRow, 0, len(appts))
	for _, appt := range appts {
		project, ok := projectCache[appt.ProjectID]
		if !ok {
			project, err = s.projects.GetByID(ctx, appt.ProjectID)
			if err != nil {
				return nil, fmt.Errorf("failed to load project %s: %w", appt.ProjectID, err)
			}
			projectCache[appt.ProjectID] = project
		}
		row := scheduleRow{
			DueDate:    appt.DueDate,
			ActualDate: appt.ActualDate,
			Status:     appt.Status,
			Operator:   appt.Operator,
		}
		if appt.CertificateNumber != nil {
			row.Certificate = *appt.CertificateNumber
		}
		if project != nil {
			row.Client = project.Client.DisplayName()
			row.Address = project.Address
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *service) AppointmentScheduleXLSX(ctx context.Context, from, to time.Time) ([]byte, error) {
	rows, err := s.scheduleRows(ctx, from, to)
	if err != nil {
		return nil, err
	}
	data, err := buildScheduleXLSX(rows, from, to)
	if err != nil {
		return nil, err
	}
	s.logger.Info("schedule exported",
		zap.Int("appointments", len(rows)),
		zap.Time("from", from), zap.Time("to", to))
	return data, nil
}

func (s *service) ProjectSummaryPDF(ctx context.Context) ([]byte, error) {
	profile, err := s.profiles.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business profile: %w", err)
	}
	if profile == nil {
		return nil, business.ErrNotFound
	}

	list, err := s.projects.List(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	data, err := buildProjectSummaryPDF(*profile, list)
	if err != nil {
		return nil, err
	}
	s.logger.Info("project summary exported", zap.Int("projects", len(list)))
	return data, nil
}
