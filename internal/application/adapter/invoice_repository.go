// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/sales-reporter/backend/internal/domain/entity"
)

// InvoiceRepository defines the interface for invoice persistence operations.
type InvoiceRepository interface {
	// Create persists a new invoice. A taken reference yields ErrDuplicateReference.
	Create(ctx context.Context, invoice *entity.Invoice) error

	// FindByID retrieves an invoice by its identifier. Any identifier that is not
	// well formed yields ErrInvoiceNotFound, the same as a missing invoice.
	FindByID(ctx context.Context, id string) (*entity.Invoice, error)

	// FindByDateRange retrieves invoices with start <= date <= end.
	// A nil bound leaves that side of the range open; two nil bounds return everything.
	FindByDateRange(ctx context.Context, start, end *time.Time) ([]*entity.Invoice, error)
}
