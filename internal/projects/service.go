package projects

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/digitales-2024/perucontrol-sub003/pkg/money"
)

type Service interface {
	CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context, clientID *uuid.UUID, status *ProjectStatus) ([]Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, req UpdateProjectRequest) (*Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error

	AddAppointment(ctx context.Context, projectID uuid.UUID, req CreateAppointmentRequest) (*Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error)
	CompleteAppointment(ctx context.Context, id uuid.UUID, req CompleteAppointmentRequest) (*Appointment, error)
	CancelAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error)
	MarkOverdueAppointments(ctx context.Context, now time.Time) (int, error)
	ListAppointmentsBetween(ctx context.Context, from, to time.Time) ([]Appointment, error)
}

type projectService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &projectService{repo: repo, logger: logger}
}

func (s *projectService) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	if len(req.Services) == 0 {
		return nil, fmt.Errorf("project requires at least one service")
	}

	services, err := json.Marshal(req.Services)
	if err != nil {
		return nil, fmt.Errorf("failed to encode services: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = money.PEN
	}

	project := &Project{
		ID:       uuid.New(),
		ClientID: req.ClientID,
		Address:  req.Address,
		Area:     req.Area,
		Services: services,
		Price:    req.Price,
		Currency: currency,
		Ambients: req.Ambients,
		Status:   ProjectActive,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("Project created",
		zap.String("project_id", project.ID.String()),
		zap.String("client_id", project.ClientID.String()))

	return project, nil
}

func (s *projectService) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *projectService) ListProjects(ctx context.Context, clientID *uuid.UUID, status *ProjectStatus) ([]Project, error) {
	return s.repo.List(ctx, clientID, status)
}

func (s *projectService) UpdateProject(ctx context.Context, id uuid.UUID, req UpdateProjectRequest) (*Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project not found")
	}

	if req.Address != nil {
		project.Address = *req.Address
	}
	if req.Area != nil {
		project.Area = *req.Area
	}
	if req.Services != nil {
		services, err := json.Marshal(*req.Services)
		if err != nil {
			return nil, fmt.Errorf("failed to encode services: %w", err)
		}
		project.Services = services
	}
	if req.Price != nil {
		project.Price = *req.Price
	}
	if req.Currency != nil {
		project.Currency = *req.Currency
	}
	if req.Ambients != nil {
		project.Ambients = *req.Ambients
	}
	if req.Status != nil {
		project.Status = *req.Status
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

func (s *projectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project not found")
	}
	return s.repo.Delete(ctx, id)
}

func (s *projectService) AddAppointment(ctx context.Context, projectID uuid.UUID, req CreateAppointmentRequest) (*Appointment, error) {
	project, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("project not found")
	}
	if project.Status != ProjectActive {
		return nil, fmt.Errorf("cannot schedule appointments on a %s project", project.Status)
	}

	appt := &Appointment{
		ID:        uuid.New(),
		ProjectID: projectID,
		DueDate:   req.DueDate,
		Operator:  req.Operator,
		Status:    AppointmentScheduled,
	}

	if err := s.repo.CreateAppointment(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	return appt, nil
}

func (s *projectService) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetAppointment(ctx, id)
}

func (s *projectService) CompleteAppointment(ctx context.Context, id uuid.UUID, req CompleteAppointmentRequest) (*Appointment, error) {
	appt, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, fmt.Errorf("appointment not found")
	}
	if appt.Status == AppointmentCancelled {
		return nil, fmt.Errorf("appointment was cancelled")
	}

	actual := req.ActualDate
	appt.ActualDate = &actual
	appt.Status = AppointmentDone
	if req.Operator != "" {
		appt.Operator = req.Operator
	}

	if err := s.repo.UpdateAppointment(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	return appt, nil
}

func (s *projectService) CancelAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, fmt.Errorf("appointment not found")
	}
	if appt.Status == AppointmentDone {
		return nil, fmt.Errorf("appointment already performed")
	}

	appt.Status = AppointmentCancelled
	if err := s.repo.UpdateAppointment(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	return appt, nil
}

// MarkOverdueAppointments flips scheduled appointments past their due date
// to OVERDUE. Invoked by the cron scheduler.
func (s *projectService) MarkOverdueAppointments(ctx context.Context, now time.Time) (int, error) {
	appts, err := s.repo.ListAppointmentsDueBefore(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list due appointments: %w", err)
	}

	marked := 0
	for i := range appts {
		appts[i].Status = AppointmentOverdue
		if err := s.repo.UpdateAppointment(ctx, &appts[i]); err != nil {
			return marked, fmt.Errorf("failed to mark appointment %s: %w", appts[i].ID, err)
		}
		marked++
	}

	if marked > 0 {
		s.logger.Info("Marked overdue appointments", zap.Int("count", marked))
	}
	return marked, nil
}

func (s *projectService) ListAppointmentsBetween(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	return s.repo.ListAppointmentsBetween(ctx, from, to)
}
