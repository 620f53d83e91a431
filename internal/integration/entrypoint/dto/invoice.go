// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sales-reporter/backend/internal/domain/entity"
)

// InvoiceItemRequest is one line of an invoice creation request.
type InvoiceItemRequest struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"qt"`
}

// CreateInvoiceRequest represents the request body for invoice creation.
// Amount accepts a JSON number or a numeric string.
type CreateInvoiceRequest struct {
	Reference string               `json:"reference" binding:"required"`
	Customer  string               `json:"customer" binding:"required"`
	Amount    *decimal.Decimal     `json:"amount" binding:"required"`
	Date      string               `json:"date" binding:"required"`
	Items     []InvoiceItemRequest `json:"items"`
}

// ToEntityItems converts the request items to domain items, preserving order.
func (r CreateInvoiceRequest) ToEntityItems() []entity.InvoiceItem {
	items := make([]entity.InvoiceItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = entity.InvoiceItem{
			SKU:      item.SKU,
			Quantity: item.Quantity,
		}
	}
	return items
}

// InvoiceItemResponse is one line of an invoice in API responses.
type InvoiceItemResponse struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"qt"`
}

// InvoiceResponse represents a single invoice in API responses.
type InvoiceResponse struct {
	ID        string                `json:"id"`
	Reference string                `json:"reference"`
	Customer  string                `json:"customer"`
	Amount    json.Number           `json:"amount"`
	Date      time.Time             `json:"date"`
	Items     []InvoiceItemResponse `json:"items"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// ToInvoiceResponse converts a domain Invoice entity to an InvoiceResponse DTO.
func ToInvoiceResponse(invoice *entity.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(invoice.Items))
	for i, item := range invoice.Items {
		items[i] = InvoiceItemResponse{
			SKU:      item.SKU,
			Quantity: item.Quantity,
		}
	}

	return InvoiceResponse{
		ID:        invoice.ID.String(),
		Reference: invoice.Reference,
		Customer:  invoice.Customer,
		Amount:    json.Number(invoice.Amount.String()),
		Date:      invoice.Date.UTC(),
		Items:     items,
		CreatedAt: invoice.CreatedAt,
		UpdatedAt: invoice.UpdatedAt,
	}
}

// ToInvoiceListResponse converts a list of invoices. The result is never nil
// so an empty range encodes as [].
func ToInvoiceListResponse(invoices []*entity.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		out = append(out, ToInvoiceResponse(invoice))
	}
	return out
}
