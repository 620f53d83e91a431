// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceItem is a single line of an invoice.
type InvoiceItem struct {
	SKU      string
	Quantity int
}

// Invoice represents a recorded sales invoice. Invoices are immutable once created.
type Invoice struct {
	ID        uuid.UUID
	Reference string // Caller-assigned, globally unique
	Customer  string
	Amount    decimal.Decimal
	Date      time.Time // Business date of the invoice
	Items     []InvoiceItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewInvoice creates a new Invoice entity with a generated identifier.
func NewInvoice(
	reference string,
	customer string,
	amount decimal.Decimal,
	date time.Time,
	items []InvoiceItem,
) *Invoice {
	now := time.Now().UTC()

	copied := make([]InvoiceItem, len(items))
	copy(copied, items)

	return &Invoice{
		ID:        uuid.New(),
		Reference: reference,
		Customer:  customer,
		Amount:    amount,
		Date:      date,
		Items:     copied,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DuplicateSKU returns the first SKU that appears more than once in items.
// The second return value is false when all SKUs are pairwise distinct.
func DuplicateSKU(items []InvoiceItem) (string, bool) {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.SKU]; ok {
			return item.SKU, true
		}
		seen[item.SKU] = struct{}{}
	}
	return "", false
}
