package invoice

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sales-reporter/backend/internal/domain/entity"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
)

// memoryInvoiceRepository is an in-memory InvoiceRepository for use case tests.
type memoryInvoiceRepository struct {
	mu        sync.Mutex
	invoices  []*entity.Invoice
	createErr error
	calls     int
}

func newMemoryInvoiceRepository() *memoryInvoiceRepository {
	return &memoryInvoiceRepository{}
}

func (r *memoryInvoiceRepository) Create(_ context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.invoices {
		if existing.Reference == invoice.Reference {
			return domainerror.ErrDuplicateReference
		}
	}
	r.invoices = append(r.invoices, invoice)
	return nil
}

func (r *memoryInvoiceRepository) FindByID(_ context.Context, id string) (*entity.Invoice, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, domainerror.ErrInvoiceNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, invoice := range r.invoices {
		if invoice.ID == parsed {
			return invoice, nil
		}
	}
	return nil, domainerror.ErrInvoiceNotFound
}

func (r *memoryInvoiceRepository) FindByDateRange(_ context.Context, start, end *time.Time) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Invoice
	for _, invoice := range r.invoices {
		if start != nil && invoice.Date.Before(*start) {
			continue
		}
		if end != nil && invoice.Date.After(*end) {
			continue
		}
		out = append(out, invoice)
	}
	return out, nil
}
