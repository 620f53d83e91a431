package dto

import (
	"encoding/json"
	"time"

	"github.com/sales-reporter/backend/internal/domain/entity"
)

// GenerateReportRequest represents the request body for POST /reports/daily.
// An empty date selects the previous day.
type GenerateReportRequest struct {
	Date string `json:"date"`
}

// ItemSalesSummaryResponse is one per-SKU line of a report.
type ItemSalesSummaryResponse struct {
	SKU               string `json:"sku"`
	TotalQuantitySold int    `json:"totalQuantitySold"`
}

// SalesReportResponse is the report that was handed to the queue.
type SalesReportResponse struct {
	Date                time.Time                  `json:"date"`
	TotalSalesAmount    json.Number                `json:"totalSalesAmount"`
	PerItemSalesSummary []ItemSalesSummaryResponse `json:"perItemSalesSummary"`
	InvoiceCount        int                        `json:"invoiceCount"`
	WindowStart         time.Time                  `json:"windowStart"`
	WindowEnd           time.Time                  `json:"windowEnd"`
}

// ToSalesReportResponse converts a built report and its window.
func ToSalesReportResponse(report *entity.SalesReport, invoiceCount int, start, end time.Time) SalesReportResponse {
	items := make([]ItemSalesSummaryResponse, len(report.PerItemSalesSummary))
	for i, item := range report.PerItemSalesSummary {
		items[i] = ItemSalesSummaryResponse{
			SKU:               item.SKU,
			TotalQuantitySold: item.TotalQuantitySold,
		}
	}

	return SalesReportResponse{
		Date:                report.Date,
		TotalSalesAmount:    json.Number(report.TotalSalesAmount.String()),
		PerItemSalesSummary: items,
		InvoiceCount:        invoiceCount,
		WindowStart:         start,
		WindowEnd:           end,
	}
}
