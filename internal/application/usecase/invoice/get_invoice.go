// Package invoice contains invoice-related use cases.
package invoice

import (
	"context"
	"errors"
	"fmt"

	"github.com/sales-reporter/backend/internal/application/adapter"
	"github.com/sales-reporter/backend/internal/domain/entity"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
)

// GetInvoiceInput represents the input for getting an invoice.
type GetInvoiceInput struct {
	ID string
}

// GetInvoiceOutput represents the output of getting an invoice.
type GetInvoiceOutput struct {
	Invoice *entity.Invoice
}

// GetInvoiceUseCase handles getting an invoice by ID.
type GetInvoiceUseCase struct {
	invoiceRepo adapter.InvoiceRepository
}

// NewGetInvoiceUseCase creates a new GetInvoiceUseCase instance.
func NewGetInvoiceUseCase(invoiceRepo adapter.InvoiceRepository) *GetInvoiceUseCase {
	return &GetInvoiceUseCase{
		invoiceRepo: invoiceRepo,
	}
}

// Execute performs the invoice retrieval.
func (uc *GetInvoiceUseCase) Execute(ctx context.Context, input GetInvoiceInput) (*GetInvoiceOutput, error) {
	invoice, err := uc.invoiceRepo.FindByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, domainerror.ErrInvoiceNotFound) {
			return nil, domainerror.NewInvoiceError(
				domainerror.ErrCodeInvoiceNotFound,
				"invoice not found",
				domainerror.ErrInvoiceNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}

	return &GetInvoiceOutput{
		Invoice: invoice,
	}, nil
}
