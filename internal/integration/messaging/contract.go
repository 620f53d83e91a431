// Package messaging implements the durable report queue on RabbitMQ.
package messaging

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/sales-reporter/backend/internal/domain/entity"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
)

// DefaultQueueName is the well-known report queue.
const DefaultQueueName = "daily_sales_report"

// ContentType is set on every published report.
const ContentType = "application/json"

// reportDateLayout is the ISO-8601 form written to the wire. The offset is kept
// so the consumer sees the same calendar day the report was built for.
const reportDateLayout = "2006-01-02T15:04:05.000Z07:00"

type itemSummaryMessage struct {
	SKU               string `json:"sku"`
	TotalQuantitySold int    `json:"totalQuantitySold"`
}

// salesReportMessage is the JSON body of a report message.
// Pointer fields distinguish missing keys from zero values on decode.
type salesReportMessage struct {
	Date                *string               `json:"date"`
	TotalSalesAmount    *json.Number          `json:"totalSalesAmount"`
	PerItemSalesSummary *[]itemSummaryMessage `json:"perItemSalesSummary"`
}

// EncodeSalesReport serializes a report to its UTF-8 JSON wire form.
// The amount is written as a JSON number.
func EncodeSalesReport(report *entity.SalesReport) ([]byte, error) {
	if report == nil {
		return nil, errors.New("nil sales report")
	}

	date := report.Date.Format(reportDateLayout)
	amount := json.Number(report.TotalSalesAmount.String())
	items := make([]itemSummaryMessage, len(report.PerItemSalesSummary))
	for i, item := range report.PerItemSalesSummary {
		items[i] = itemSummaryMessage{
			SKU:               item.SKU,
			TotalQuantitySold: item.TotalQuantitySold,
		}
	}

	return json.Marshal(salesReportMessage{
		Date:                &date,
		TotalSalesAmount:    &amount,
		PerItemSalesSummary: &items,
	})
}

// DecodeSalesReport validates a message body and parses it into a SalesReport.
// Failures are returned as *MessageProcessingError tagged with the decode or parse stage.
func DecodeSalesReport(body []byte) (*entity.SalesReport, error) {
	if !utf8.Valid(body) {
		return nil, domainerror.NewMessageProcessingError(
			domainerror.StageDecode,
			fmt.Errorf("%w: body is not valid UTF-8", domainerror.ErrMalformedReport),
		)
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var msg salesReportMessage
	if err := decoder.Decode(&msg); err != nil {
		return nil, parseError("invalid JSON: %v", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, parseError("trailing data after report object")
	}

	if msg.Date == nil {
		return nil, parseError("missing date")
	}
	date, err := parseReportDate(*msg.Date)
	if err != nil {
		return nil, parseError("invalid date %q", *msg.Date)
	}

	if msg.TotalSalesAmount == nil {
		return nil, parseError("missing totalSalesAmount")
	}
	amount, err := decimal.NewFromString(msg.TotalSalesAmount.String())
	if err != nil {
		return nil, parseError("invalid totalSalesAmount %q", msg.TotalSalesAmount.String())
	}

	if msg.PerItemSalesSummary == nil {
		return nil, parseError("missing perItemSalesSummary")
	}
	summary := make([]entity.ItemSalesSummary, 0, len(*msg.PerItemSalesSummary))
	for i, item := range *msg.PerItemSalesSummary {
		if strings.TrimSpace(item.SKU) == "" {
			return nil, parseError("perItemSalesSummary[%d]: missing sku", i)
		}
		summary = append(summary, entity.ItemSalesSummary{
			SKU:               item.SKU,
			TotalQuantitySold: item.TotalQuantitySold,
		})
	}

	return &entity.SalesReport{
		Date:                date,
		TotalSalesAmount:    amount,
		PerItemSalesSummary: summary,
	}, nil
}

// parseReportDate accepts RFC 3339 timestamps, keeping their offset, and plain
// YYYY-MM-DD dates, read as UTC.
func parseReportDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, value)
}

func parseError(format string, args ...any) error {
	return domainerror.NewMessageProcessingError(
		domainerror.StageParse,
		fmt.Errorf("%w: %s", domainerror.ErrMalformedReport, fmt.Sprintf(format, args...)),
	)
}
