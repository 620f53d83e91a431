// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/sales-reporter/backend/internal/application/adapter"
	"github.com/sales-reporter/backend/internal/domain/entity"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
	"github.com/sales-reporter/backend/internal/integration/persistence/model"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// invoiceRepository implements the adapter.InvoiceRepository interface.
type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository instance.
func NewInvoiceRepository(db *gorm.DB) adapter.InvoiceRepository {
	return &invoiceRepository{
		db: db,
	}
}

// Create inserts a new invoice. A taken reference returns ErrDuplicateReference.
func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	invoiceModel := model.InvoiceModelFromEntity(invoice)
	result := r.db.WithContext(ctx).Create(invoiceModel)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerror.ErrDuplicateReference
		}
		return result.Error
	}
	return nil
}

// FindByID retrieves an invoice by its ID. Malformed IDs never reach the database.
func (r *invoiceRepository) FindByID(ctx context.Context, id string) (*entity.Invoice, error) {
	invoiceID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, domainerror.ErrInvoiceNotFound
	}

	var invoiceModel model.InvoiceModel
	result := r.db.WithContext(ctx).Where("id = ?", invoiceID).First(&invoiceModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrInvoiceNotFound
		}
		return nil, result.Error
	}
	return invoiceModel.ToEntity(), nil
}

// FindByDateRange retrieves invoices whose date falls within the inclusive range.
func (r *invoiceRepository) FindByDateRange(ctx context.Context, start, end *time.Time) ([]*entity.Invoice, error) {
	query := r.db.WithContext(ctx).Model(&model.InvoiceModel{})
	if start != nil {
		query = query.Where("date >= ?", start.UTC())
	}
	if end != nil {
		query = query.Where("date <= ?", end.UTC())
	}

	var invoiceModels []model.InvoiceModel
	result := query.Order("date ASC").Order("created_at ASC").Find(&invoiceModels)
	if result.Error != nil {
		return nil, result.Error
	}

	invoices := make([]*entity.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToEntity()
	}
	return invoices, nil
}

// isUniqueViolation recognizes unique constraint errors from postgres and sqlite.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
