package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/ringside/wrestling-pulse/internal/config"
	"github.com/ringside/wrestling-pulse/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	refreshTimeout = 10 * time.Minute
	reportTimeout  = 15 * time.Minute
)

// Runner is the work the scheduler triggers
type Runner interface {
	RunAnalysis(ctx context.Context) (*models.Dashboard, error)
	RunReport(ctx context.Context) error
}

// Service handles scheduling of refresh and report runs
type Service struct {
	config    *config.Config
	runner    Runner
	cron      *cron.Cron
	refreshID cron.EntryID
	reportID  cron.EntryID
}

// NewService creates a new scheduler service running in the configured time zone
func NewService(cfg *config.Config, runner Runner) (*Service, error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", cfg.TimeZone, err)
	}

	return &Service{
		config: cfg,
		runner: runner,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
	}, nil
}

// reportSpec returns the cron spec for the report schedule
func reportSpec(schedule string) string {
	switch schedule {
	case "daily":
		// Every day at 9 AM
		return "0 9 * * *"
	default:
		// Monday at 9 AM
		return "0 9 * * MON"
	}
}

// Start registers the jobs, starts the scheduler and kicks off a first refresh
func (s *Service) Start() error {
	var err error
	if s.refreshID, err = s.cron.AddFunc(s.config.RefreshSchedule, s.refresh); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.config.RefreshSchedule, err)
	}

	if s.reportID, err = s.cron.AddFunc(reportSpec(s.config.ReportSchedule), s.report); err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started: refresh %q, %s reports (%s)",
		s.config.RefreshSchedule, s.config.ReportSchedule, s.cron.Location())

	go s.refresh()
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		logrus.Info("Scheduler stopped")
	}
}

// NextRefresh returns when the next refresh runs
func (s *Service) NextRefresh() time.Time {
	return s.cron.Entry(s.refreshID).Next
}

// NextReport returns when the next report is sent
func (s *Service) NextReport() time.Time {
	return s.cron.Entry(s.reportID).Next
}

func (s *Service) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	logrus.Info("Starting scheduled refresh")
	if _, err := s.runner.RunAnalysis(ctx); err != nil {
		logrus.Errorf("Scheduled refresh failed: %v", err)
	}
}

func (s *Service) report() {
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	logrus.Infof("Starting scheduled %s report", s.config.ReportSchedule)
	if err := s.runner.RunReport(ctx); err != nil {
		logrus.Errorf("Scheduled report failed: %v", err)
	}
}
