// Package templates provides email template rendering functionality.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/sales-reporter/backend/internal/domain/entity"
)

//go:embed *.html *.txt
var templateFS embed.FS

// TemplateDailySalesReport is the daily report template name.
const TemplateDailySalesReport = "daily_sales_report"

// ReportDateLayout is the fixed, locale-independent date format used in report emails.
const ReportDateLayout = "1/2/2006"

// Renderer handles email template rendering.
type Renderer struct {
	htmlTemplates *htmltemplate.Template
	textTemplates *texttemplate.Template
}

// NewRenderer creates a new template renderer.
func NewRenderer() (*Renderer, error) {
	htmlTmpl, err := htmltemplate.ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML templates: %w", err)
	}

	textTmpl, err := texttemplate.ParseFS(templateFS, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}

	return &Renderer{
		htmlTemplates: htmlTmpl,
		textTemplates: textTmpl,
	}, nil
}

// Render renders both HTML and text versions of a template.
func (r *Renderer) Render(templateName string, data interface{}) (html string, text string, err error) {
	var htmlBuf bytes.Buffer
	if err := r.htmlTemplates.ExecuteTemplate(&htmlBuf, templateName+".html", data); err != nil {
		return "", "", fmt.Errorf("failed to render HTML template %s: %w", templateName, err)
	}

	var textBuf bytes.Buffer
	if err := r.textTemplates.ExecuteTemplate(&textBuf, templateName+".txt", data); err != nil {
		return "", "", fmt.Errorf("failed to render text template %s: %w", templateName, err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}

// SalesReportEmail is a rendered daily report email.
type SalesReportEmail struct {
	Subject string
	Text    string
	HTML    string
}

// RenderSalesReport renders the subject and bodies for a sales report.
func (r *Renderer) RenderSalesReport(report *entity.SalesReport) (*SalesReportEmail, error) {
	data := NewSalesReportData(report)

	html, text, err := r.Render(TemplateDailySalesReport, data)
	if err != nil {
		return nil, err
	}

	return &SalesReportEmail{
		Subject: "Daily Sales Summary Report - " + data.Date,
		Text:    text,
		HTML:    html,
	}, nil
}

// SalesReportData contains data for the daily sales report templates.
type SalesReportData struct {
	Date             string
	TotalSalesAmount string
	Items            []SalesReportItem
}

// SalesReportItem is one SKU line of the report.
type SalesReportItem struct {
	SKU               string
	TotalQuantitySold int
}

// NewSalesReportData formats a report for the templates.
func NewSalesReportData(report *entity.SalesReport) SalesReportData {
	items := make([]SalesReportItem, len(report.PerItemSalesSummary))
	for i, item := range report.PerItemSalesSummary {
		items[i] = SalesReportItem{
			SKU:               item.SKU,
			TotalQuantitySold: item.TotalQuantitySold,
		}
	}

	return SalesReportData{
		Date:             FormatReportDate(report.Date),
		TotalSalesAmount: report.TotalSalesAmount.String(),
		Items:            items,
	}
}

// FormatReportDate formats t with ReportDateLayout in t's own offset, so a
// report built for a local day is titled with that day.
func FormatReportDate(t time.Time) string {
	return t.Format(ReportDateLayout)
}
