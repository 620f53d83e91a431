// Package report contains sales report use cases.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sales-reporter/backend/internal/application/adapter"
	"github.com/sales-reporter/backend/internal/domain/entity"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
)

// GenerateDailyReportInput represents the input for building a daily report.
// Only the calendar day of Date is used, interpreted in the use case's location.
type GenerateDailyReportInput struct {
	Date time.Time
}

// GenerateDailyReportOutput represents the output of building a daily report.
type GenerateDailyReportOutput struct {
	Report       *entity.SalesReport
	InvoiceCount int
	WindowStart  time.Time
	WindowEnd    time.Time
}

// GenerateDailyReportUseCase aggregates invoices into a SalesReport and publishes it.
type GenerateDailyReportUseCase struct {
	invoiceRepo adapter.InvoiceRepository
	publisher   adapter.ReportPublisher
	location    *time.Location
	logger      *slog.Logger
}

// NewGenerateDailyReportUseCase creates a new GenerateDailyReportUseCase instance.
// A nil location means UTC.
func NewGenerateDailyReportUseCase(
	invoiceRepo adapter.InvoiceRepository,
	publisher adapter.ReportPublisher,
	location *time.Location,
	logger *slog.Logger,
) *GenerateDailyReportUseCase {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateDailyReportUseCase{
		invoiceRepo: invoiceRepo,
		publisher:   publisher,
		location:    location,
		logger:      logger,
	}
}

// Execute builds and publishes the report for the whole calendar day of input.Date.
func (uc *GenerateDailyReportUseCase) Execute(ctx context.Context, input GenerateDailyReportInput) (*GenerateDailyReportOutput, error) {
	start, end := DayWindow(input.Date, uc.location)
	return uc.ExecuteWindow(ctx, start, end, start)
}

// ExecuteWindow builds the report over the inclusive window [start, end],
// stamps it with date and hands it to the publisher.
func (uc *GenerateDailyReportUseCase) ExecuteWindow(ctx context.Context, start, end, date time.Time) (*GenerateDailyReportOutput, error) {
	if start.After(end) {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeInvalidReportWindow,
			"report window start must not be after end",
			domainerror.ErrInvalidReportWindow,
		)
	}

	invoices, err := uc.invoiceRepo.FindByDateRange(ctx, &start, &end)
	if err != nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeReportQueryFailed,
			"failed to load invoices for report",
			err,
		)
	}

	salesReport := entity.BuildSalesReport(date, invoices)

	if err := uc.publisher.Publish(ctx, salesReport); err != nil {
		return nil, fmt.Errorf("failed to publish sales report: %w", err)
	}

	uc.logger.Info("Daily sales report generated",
		"date", date.Format("2006-01-02"),
		"invoices", len(invoices),
		"total_sales_amount", salesReport.TotalSalesAmount.String(),
		"skus", len(salesReport.PerItemSalesSummary),
	)

	return &GenerateDailyReportOutput{
		Report:       salesReport,
		InvoiceCount: len(invoices),
		WindowStart:  start,
		WindowEnd:    end,
	}, nil
}

// DayWindow returns the first and last instant of the calendar day containing t in loc.
func DayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}
