package templates

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sales-reporter/backend/internal/domain/entity"
)

func TestRenderer_RenderSalesReport(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	report := &entity.SalesReport{
		Date:             time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC),
		TotalSalesAmount: decimal.NewFromInt(1200),
		PerItemSalesSummary: []entity.ItemSalesSummary{
			{SKU: "ITEM001", TotalQuantitySold: 5},
			{SKU: "ITEM002", TotalQuantitySold: 3},
		},
	}

	email, err := renderer.RenderSalesReport(report)
	require.NoError(t, err)

	assert.Equal(t, "Daily Sales Summary Report - 1/25/2025", email.Subject)
	assert.Equal(t, "Daily Sales Summary Report for 1/25/2025\n\n"+
		"Total Sales Amount: $1200\n\n"+
		"Per Item Sales Summary:\n"+
		"SKU: ITEM001, Total Quantity Sold: 5\n"+
		"SKU: ITEM002, Total Quantity Sold: 3\n", email.Text)

	assert.Contains(t, email.HTML, "<td>ITEM001</td>")
	assert.Contains(t, email.HTML, "$1200")
}

func TestRenderer_RenderSalesReport_EmptyAndFractional(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	report := &entity.SalesReport{
		Date:                time.Date(2025, 12, 3, 23, 0, 0, 0, time.FixedZone("BRT", -3*60*60)),
		TotalSalesAmount:    decimal.RequireFromString("1200.50"),
		PerItemSalesSummary: []entity.ItemSalesSummary{},
	}

	email, err := renderer.RenderSalesReport(report)
	require.NoError(t, err)

	// The date is printed in its own offset, not converted to UTC.
	assert.Equal(t, "Daily Sales Summary Report - 12/3/2025", email.Subject)
	assert.Contains(t, email.Text, "Total Sales Amount: $1200.5\n")
	assert.True(t, strings.HasSuffix(email.Text, "Per Item Sales Summary:\n"))
	assert.NotContains(t, email.Text, "SKU:")
	assert.Contains(t, email.HTML, "No items were sold.")
}

func TestFormatReportDate_KeepsLocalDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	midnight := time.Date(2025, 1, 25, 0, 0, 0, 0, tokyo)

	assert.Equal(t, "1/25/2025", FormatReportDate(midnight))
	assert.Equal(t, "1/24/2025", FormatReportDate(midnight.UTC()))
}
