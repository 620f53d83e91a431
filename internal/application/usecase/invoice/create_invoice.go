// Package invoice contains invoice-related use cases.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sales-reporter/backend/internal/application/adapter"
	"github.com/sales-reporter/backend/internal/domain/entity"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
)

// The invoices.amount column is decimal(15,2); amounts outside it would be
// rounded or rejected by the database.
const (
	amountScale         = 2
	amountIntegerDigits = 13
)

var maxAmount = decimal.New(1, amountIntegerDigits)

// CreateInvoiceInput represents the input for invoice creation.
type CreateInvoiceInput struct {
	Reference string
	Customer  string
	Amount    decimal.Decimal
	Date      time.Time
	Items     []entity.InvoiceItem
}

// CreateInvoiceOutput represents the output of invoice creation.
type CreateInvoiceOutput struct {
	Invoice *entity.Invoice
}

// CreateInvoiceUseCase validates and persists new invoices.
type CreateInvoiceUseCase struct {
	invoiceRepo adapter.InvoiceRepository
}

// NewCreateInvoiceUseCase creates a new CreateInvoiceUseCase instance.
func NewCreateInvoiceUseCase(invoiceRepo adapter.InvoiceRepository) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		invoiceRepo: invoiceRepo,
	}
}

// Execute performs the invoice creation. Nothing is written when validation fails.
func (uc *CreateInvoiceUseCase) Execute(ctx context.Context, input CreateInvoiceInput) (*CreateInvoiceOutput, error) {
	if err := validateInvoice(input); err != nil {
		return nil, err
	}

	invoice := entity.NewInvoice(
		input.Reference,
		input.Customer,
		input.Amount,
		input.Date,
		input.Items,
	)

	if err := uc.invoiceRepo.Create(ctx, invoice); err != nil {
		if errors.Is(err, domainerror.ErrDuplicateReference) {
			return nil, domainerror.NewInvoiceError(
				domainerror.ErrCodeDuplicateReference,
				fmt.Sprintf("invoice reference %q already exists", invoice.Reference),
				domainerror.ErrDuplicateReference,
			)
		}
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	return &CreateInvoiceOutput{
		Invoice: invoice,
	}, nil
}

// validateInvoice checks required fields, then the item list. Blank checks trim
// whitespace, but the stored values are the ones given.
// The duplicate SKU check runs last so field errors are reported first.
func validateInvoice(input CreateInvoiceInput) error {
	if strings.TrimSpace(input.Reference) == "" {
		return invalidInvoice(domainerror.ErrCodeMissingInvoiceFields, "reference is required")
	}
	if strings.TrimSpace(input.Customer) == "" {
		return invalidInvoice(domainerror.ErrCodeMissingInvoiceFields, "customer is required")
	}
	if input.Date.IsZero() {
		return invalidInvoice(domainerror.ErrCodeInvalidInvoiceDate, "date is required")
	}
	if input.Amount.IsNegative() {
		return invalidInvoice(domainerror.ErrCodeInvalidInvoiceAmount, "amount must not be negative")
	}
	if !input.Amount.Equal(input.Amount.Round(amountScale)) {
		return invalidInvoice(domainerror.ErrCodeInvalidInvoiceAmount, fmt.Sprintf("amount must have at most %d decimal places", amountScale))
	}
	if input.Amount.GreaterThanOrEqual(maxAmount) {
		return invalidInvoice(domainerror.ErrCodeInvalidInvoiceAmount, fmt.Sprintf("amount must be less than %s", maxAmount.String()))
	}

	for i, item := range input.Items {
		if strings.TrimSpace(item.SKU) == "" {
			return invalidInvoice(domainerror.ErrCodeInvalidInvoiceItem, fmt.Sprintf("items[%d]: sku is required", i))
		}
		if item.Quantity <= 0 {
			return invalidInvoice(domainerror.ErrCodeInvalidInvoiceItem, fmt.Sprintf("items[%d]: quantity must be greater than zero", i))
		}
	}

	if sku, dup := entity.DuplicateSKU(input.Items); dup {
		return domainerror.NewInvoiceError(
			domainerror.ErrCodeDuplicateSku,
			fmt.Sprintf("duplicate sku %q in invoice items", sku),
			domainerror.ErrDuplicateSku,
		)
	}

	return nil
}

func invalidInvoice(code domainerror.InvoiceErrorCode, message string) error {
	return domainerror.NewInvoiceError(code, message, domainerror.ErrInvalidInvoice)
}
