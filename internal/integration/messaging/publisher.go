package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sales-reporter/backend/internal/application/adapter"
	"github.com/sales-reporter/backend/internal/domain/entity"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
	"github.com/sales-reporter/backend/internal/metrics"
)

// Publisher implements adapter.ReportPublisher on the broker's publish channel.
type Publisher struct {
	broker *Broker
	now    func() time.Time
}

// NewPublisher creates a new Publisher.
func NewPublisher(broker *Broker) *Publisher {
	return &Publisher{
		broker: broker,
		now:    time.Now,
	}
}

// Publish sends the report as a persistent message with no expiry.
// When no channel is established the report is dropped with a logged
// ErrChannelUnavailable and nil is returned, so callers never fail on it.
func (p *Publisher) Publish(ctx context.Context, report *entity.SalesReport) error {
	body, err := EncodeSalesReport(report)
	if err != nil {
		metrics.IncPublishSkipped("error")
		return domainerror.NewReportError(
			domainerror.ErrCodeReportPublishFailed,
			"failed to encode sales report",
			errors.Join(domainerror.ErrReportPublishFailed, err),
		)
	}

	ch := p.broker.publishChannel()
	if ch == nil {
		p.unavailable(report)
		return nil
	}

	msg := amqp.Publishing{
		DeliveryMode:    amqp.Persistent,
		ContentType:     ContentType,
		ContentEncoding: "utf-8",
		MessageId:       uuid.NewString(),
		Timestamp:       p.now().UTC(),
		Body:            body,
	}

	if err := ch.PublishWithContext(ctx, "", p.broker.Queue(), false, false, msg); err != nil {
		if errors.Is(err, amqp.ErrClosed) {
			p.unavailable(report)
			return nil
		}
		metrics.IncPublishSkipped("error")
		return domainerror.NewReportError(
			domainerror.ErrCodeReportPublishFailed,
			fmt.Sprintf("failed to publish to %s", p.broker.Queue()),
			errors.Join(domainerror.ErrReportPublishFailed, err),
		)
	}

	metrics.IncPublished()
	p.broker.logger.Info("Sales report published",
		"message_id", msg.MessageId,
		"date", report.Date.Format(time.DateOnly),
		"bytes", len(body),
	)
	return nil
}

func (p *Publisher) unavailable(report *entity.SalesReport) {
	metrics.IncPublishSkipped("channel_unavailable")
	err := domainerror.NewReportError(
		domainerror.ErrCodeChannelUnavailable,
		"report not published",
		domainerror.ErrChannelUnavailable,
	)
	p.broker.logger.Warn("Sales report dropped",
		"date", report.Date.Format(time.DateOnly),
		"state", p.broker.State().String(),
		"error", err,
	)
}

var _ adapter.ReportPublisher = (*Publisher)(nil)
