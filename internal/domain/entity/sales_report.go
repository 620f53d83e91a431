// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemSalesSummary is the quantity sold for one SKU over a report window.
type ItemSalesSummary struct {
	SKU               string
	TotalQuantitySold int
}

// SalesReport is the daily sales summary carried on the report queue.
// It is never persisted outside the queue.
type SalesReport struct {
	Date                time.Time
	TotalSalesAmount    decimal.Decimal
	PerItemSalesSummary []ItemSalesSummary
}

// BuildSalesReport reduces invoices into a single SalesReport for date.
// Amounts are summed across all invoices and item quantities are grouped by SKU.
// Summary entries follow the order in which each SKU was first seen.
func BuildSalesReport(date time.Time, invoices []*Invoice) *SalesReport {
	total := decimal.Zero
	index := make(map[string]int)
	summary := make([]ItemSalesSummary, 0)

	for _, invoice := range invoices {
		total = total.Add(invoice.Amount)

		for _, item := range invoice.Items {
			if i, ok := index[item.SKU]; ok {
				summary[i].TotalQuantitySold += item.Quantity
				continue
			}
			index[item.SKU] = len(summary)
			summary = append(summary, ItemSalesSummary{
				SKU:               item.SKU,
				TotalQuantitySold: item.Quantity,
			})
		}
	}

	return &SalesReport{
		Date:                date,
		TotalSalesAmount:    total,
		PerItemSalesSummary: summary,
	}
}

// QuantityBySKU returns the per-item summary keyed by SKU.
func (r *SalesReport) QuantityBySKU() map[string]int {
	out := make(map[string]int, len(r.PerItemSalesSummary))
	for _, item := range r.PerItemSalesSummary {
		out[item.SKU] += item.TotalQuantitySold
	}
	return out
}
