// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/sales-reporter/backend/internal/application/usecase/report"
)

// ReportGenerator builds and publishes the report for one day.
type ReportGenerator interface {
	Execute(ctx context.Context, input report.GenerateDailyReportInput) (*report.GenerateDailyReportOutput, error)
}

// DailyReport triggers report generation for the previous day on a fixed interval.
type DailyReport struct {
	generator ReportGenerator
	interval  time.Duration
	location  *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

// NewDailyReport creates a new DailyReport job.
func NewDailyReport(generator ReportGenerator, interval time.Duration, location *time.Location, logger *slog.Logger) *DailyReport {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DailyReport{
		generator: generator,
		interval:  interval,
		location:  location,
		now:       time.Now,
		logger:    logger.With("component", "daily_report_scheduler"),
	}
}

// Start runs the job every interval until ctx is cancelled. The first run
// happens one interval after Start is called.
func (s *DailyReport) Start(ctx context.Context) {
	s.logger.Info("Daily report scheduler started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Daily report scheduler stopped")
			return
		case <-ticker.C:
			_ = s.RunOnce(ctx)
		}
	}
}

// RunOnce generates the report for the day before now. Failures are logged
// and returned; they never stop the schedule.
func (s *DailyReport) RunOnce(ctx context.Context) error {
	day := s.now().In(s.location).AddDate(0, 0, -1)

	output, err := s.generator.Execute(ctx, report.GenerateDailyReportInput{Date: day})
	if err != nil {
		s.logger.Error("Scheduled daily report failed",
			"date", day.Format(time.DateOnly),
			"error", err,
		)
		return err
	}

	s.logger.Info("Scheduled daily report published",
		"date", day.Format(time.DateOnly),
		"invoices", output.InvoiceCount,
	)
	return nil
}
