package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/weaver/internal/config"
	"github.com/mamadbah2/weaver/internal/domain/models"
)

const payrollWindowDays = 7

// SalaryCalculator is the salary aggregation the payroll job relies on.
type SalaryCalculator interface {
	Calculate(ctx context.Context, workerID, start, end string) (models.SalaryReport, error)
}

// PayrollStore lists workers and persists payroll reports.
type PayrollStore interface {
	ListWorkers(ctx context.Context) ([]models.Worker, error)
	SavePayrollReport(ctx context.Context, report *models.PayrollReport) error
}

// PayrollExporter publishes a payroll report outside the store, e.g. to a
// spreadsheet or the worker's phone.
type PayrollExporter interface {
	ExportPayroll(ctx context.Context, report models.PayrollReport) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	salary    SalaryCalculator
	store     PayrollStore
	exporters []PayrollExporter
	location  *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a new scheduler instance. Nil exporters are ignored.
func NewScheduler(cfg config.PayrollConfig, salary SalaryCalculator, store PayrollStore, logger *zap.Logger, exporters ...PayrollExporter) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	active := make([]PayrollExporter, 0, len(exporters))
	for _, e := range exporters {
		if e != nil {
			active = append(active, e)
		}
	}

	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(location))

	return &Scheduler{
		cron:      c,
		schedule:  cfg.CronSchedule,
		salary:    salary,
		store:     store,
		exporters: active,
		location:  location,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// Start registers the weekly payroll job and starts the scheduler.
// An empty schedule leaves the scheduler idle.
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		s.logger.Info("payroll schedule empty, scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runWeeklyPayroll); err != nil {
		return fmt.Errorf("schedule weekly payroll %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule), zap.String("timezone", s.location.String()))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runWeeklyPayroll() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.RunWeeklyPayroll(ctx, s.now()); err != nil {
		s.logger.Error("weekly payroll failed", zap.Error(err))
	}
}

// RunWeeklyPayroll aggregates the seven days ending on now's calendar day for
// every active worker and persists one report per worker with production.
// Per-worker failures are logged and skipped.
func (s *Scheduler) RunWeeklyPayroll(ctx context.Context, now time.Time) ([]models.PayrollReport, error) {
	end := now.In(s.location)
	start := end.AddDate(0, 0, -(payrollWindowDays - 1))
	startDate, endDate := start.Format(models.DateLayout), end.Format(models.DateLayout)

	s.logger.Info("generating weekly payroll", zap.String("start", startDate), zap.String("end", endDate))

	workers, err := s.store.ListWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}

	reports := make([]models.PayrollReport, 0, len(workers))
	for _, worker := range workers {
		if !worker.IsActive {
			continue
		}

		salary, err := s.salary.Calculate(ctx, worker.ID, startDate, endDate)
		if err != nil {
			s.logger.Error("payroll calculation failed", zap.String("worker_id", worker.ID), zap.Error(err))
			continue
		}
		if len(salary.Details) == 0 {
			continue
		}

		report := models.PayrollReport{
			WorkerID:    worker.ID,
			WorkerName:  worker.Name,
			PeriodStart: startDate,
			PeriodEnd:   endDate,
			TotalMeters: salary.Summary.TotalMeters,
			TotalSalary: salary.Summary.TotalSalary,
			Records:     len(salary.Details),
			GeneratedAt: now.UTC(),
		}
		if err := s.store.SavePayrollReport(ctx, &report); err != nil {
			s.logger.Error("failed to save payroll report", zap.String("worker_id", worker.ID), zap.Error(err))
			continue
		}

		for _, exporter := range s.exporters {
			if err := exporter.ExportPayroll(ctx, report); err != nil {
				s.logger.Warn("failed to export payroll report", zap.String("worker_id", worker.ID), zap.Error(err))
			}
		}

		reports = append(reports, report)
	}

	s.logger.Info("weekly payroll generated", zap.Int("reports", len(reports)))
	return reports, nil
}
