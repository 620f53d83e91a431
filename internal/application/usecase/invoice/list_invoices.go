// Package invoice contains invoice-related use cases.
package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/sales-reporter/backend/internal/application/adapter"
	"github.com/sales-reporter/backend/internal/domain/entity"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
)

// ListInvoicesInput represents the input for listing invoices.
// Both bounds are optional and inclusive.
type ListInvoicesInput struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// ListInvoicesOutput represents the output of listing invoices.
type ListInvoicesOutput struct {
	Invoices []*entity.Invoice
}

// ListInvoicesUseCase handles listing invoices over an optional date range.
type ListInvoicesUseCase struct {
	invoiceRepo adapter.InvoiceRepository
}

// NewListInvoicesUseCase creates a new ListInvoicesUseCase instance.
func NewListInvoicesUseCase(invoiceRepo adapter.InvoiceRepository) *ListInvoicesUseCase {
	return &ListInvoicesUseCase{
		invoiceRepo: invoiceRepo,
	}
}

// Execute performs the invoice listing.
func (uc *ListInvoicesUseCase) Execute(ctx context.Context, input ListInvoicesInput) (*ListInvoicesOutput, error) {
	if input.StartDate != nil && input.EndDate != nil && input.StartDate.After(*input.EndDate) {
		return nil, domainerror.NewInvoiceError(
			domainerror.ErrCodeInvalidDateRange,
			"startDate must not be after endDate",
			domainerror.ErrInvalidDateRange,
		)
	}

	invoices, err := uc.invoiceRepo.FindByDateRange(ctx, input.StartDate, input.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	if invoices == nil {
		invoices = []*entity.Invoice{}
	}

	return &ListInvoicesOutput{
		Invoices: invoices,
	}, nil
}
