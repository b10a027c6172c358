// Package scheduler runs the periodic housekeeping jobs: marking
// appointments overdue and expiring stale quotations.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/digitales-2024/perucontrol-sub003/internal/projects"
	"github.com/digitales-2024/perucontrol-sub003/internal/quotations"
)

const jobTimeout = 2 * time.Minute

type Scheduler struct {
	cron       *cron.Cron
	projects   projects.Service
	quotations quotations.Service
	logger     *zap.Logger
}

func New(projectsSvc projects.Service, quotationsSvc quotations.Service, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		projects:   projectsSvc,
		quotations: quotationsSvc,
		logger:     logger,
	}
}

// Start registers the jobs and launches the cron loop. Both jobs run
// shortly after midnight, local time.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("5 0 * * *", s.markOverdueAppointments); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("10 0 * * *", s.expireQuotations); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("scheduler started")
	return nil
}

// Stop waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) markOverdueAppointments() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.projects.MarkOverdueAppointments(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to mark overdue appointments", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("appointments marked overdue", zap.Int("count", n))
	}
}

func (s *Scheduler) expireQuotations() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.quotations.ExpirePending(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to expire quotations", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("quotations expired", zap.Int64("count", n))
	}
}
