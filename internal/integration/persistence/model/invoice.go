// Package model defines database models for persistence layer.
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sales-reporter/backend/internal/domain/entity"
)

// InvoiceItemJSON is one element of the items column.
type InvoiceItemJSON struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"qt"`
}

// InvoiceItemsJSON is the ordered JSON array stored in the items column.
type InvoiceItemsJSON []InvoiceItemJSON

// Value implements the driver.Valuer interface.
func (items InvoiceItemsJSON) Value() (driver.Value, error) {
	if items == nil {
		items = InvoiceItemsJSON{}
	}
	return json.Marshal(items)
}

// Scan implements the sql.Scanner interface.
func (items *InvoiceItemsJSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*items = InvoiceItemsJSON{}
		return nil
	case []byte:
		return json.Unmarshal(v, items)
	case string:
		return json.Unmarshal([]byte(v), items)
	default:
		return fmt.Errorf("unsupported items column type %T", value)
	}
}

// InvoiceModel represents the invoices table in the database.
type InvoiceModel struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Reference string           `gorm:"type:varchar(100);not null;uniqueIndex"`
	Customer  string           `gorm:"type:varchar(255);not null"`
	Amount    decimal.Decimal  `gorm:"type:decimal(15,2);not null"`
	Date      time.Time        `gorm:"not null;index"`
	Items     InvoiceItemsJSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time        `gorm:"not null"`
	UpdatedAt time.Time        `gorm:"not null"`
}

// TableName returns the table name for the InvoiceModel.
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToEntity converts an InvoiceModel to a domain Invoice entity.
func (m *InvoiceModel) ToEntity() *entity.Invoice {
	items := make([]entity.InvoiceItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = entity.InvoiceItem{
			SKU:      item.SKU,
			Quantity: item.Quantity,
		}
	}

	return &entity.Invoice{
		ID:        m.ID,
		Reference: m.Reference,
		Customer:  m.Customer,
		Amount:    m.Amount,
		Date:      m.Date.UTC(),
		Items:     items,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// InvoiceModelFromEntity converts a domain Invoice entity to an InvoiceModel.
func InvoiceModelFromEntity(invoice *entity.Invoice) *InvoiceModel {
	items := make(InvoiceItemsJSON, len(invoice.Items))
	for i, item := range invoice.Items {
		items[i] = InvoiceItemJSON{
			SKU:      item.SKU,
			Quantity: item.Quantity,
		}
	}

	return &InvoiceModel{
		ID:        invoice.ID,
		Reference: invoice.Reference,
		Customer:  invoice.Customer,
		Amount:    invoice.Amount,
		Date:      invoice.Date.UTC(),
		Items:     items,
		CreatedAt: invoice.CreatedAt,
		UpdatedAt: invoice.UpdatedAt,
	}
}
