// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/sales-reporter/backend/internal/domain/entity"
)

// ReportPublisher hands a sales report to the durable report queue.
type ReportPublisher interface {
	// Publish sends the report as a persistent message. When the broker channel is
	// not established the call is a logged no-op and returns nil.
	Publish(ctx context.Context, report *entity.SalesReport) error
}
