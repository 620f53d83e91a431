package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sales-reporter/backend/internal/metrics"
)

// Message is a delivered report message handed to a MessageHandler.
type Message struct {
	ID          string
	Body        []byte
	Redelivered bool
	Timestamp   time.Time
}

// MessageHandler processes one message. A nil error acknowledges the message,
// any error rejects it without requeue.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message) error
}

// MessageHandlerFunc adapts a function to MessageHandler.
type MessageHandlerFunc func(ctx context.Context, msg Message) error

// HandleMessage calls f(ctx, msg).
func (f MessageHandlerFunc) HandleMessage(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

var errDeliveriesClosed = errors.New("delivery channel closed by broker")

// Consumer reads the report queue with manual acknowledgement and a prefetch of one,
// so at most one unacknowledged message is in flight at a time.
type Consumer struct {
	broker  *Broker
	handler MessageHandler
	tag     string
	logger  *slog.Logger
}

// NewConsumer creates a new Consumer.
func NewConsumer(broker *Broker, handler MessageHandler, tag string) *Consumer {
	return &Consumer{
		broker:  broker,
		handler: handler,
		tag:     tag,
		logger:  broker.logger.With("component", "report_consumer"),
	}
}

// Run connects, consumes and reconnects until ctx is cancelled. It returns nil on
// cancellation and an error only when the reconnect budget is exhausted.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("Report consumer started")

	for {
		s, err := c.broker.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Report consumer shutting down")
				return nil
			}
			c.logger.Error("Report consumer giving up", "error", err)
			return err
		}

		err = c.consume(ctx, s)
		c.broker.release(s)

		if ctx.Err() != nil {
			c.logger.Info("Report consumer shutting down")
			return nil
		}
		c.logger.Warn("Broker session lost, reconnecting", "error", err, "retry_in", c.broker.cfg.ReconnectInitial)

		timer := time.NewTimer(c.broker.cfg.ReconnectInitial)
		select {
		case <-ctx.Done():
			timer.Stop()
			c.logger.Info("Report consumer shutting down")
			return nil
		case <-timer.C:
		}
	}
}

// consume processes deliveries until the session ends or ctx is cancelled.
func (c *Consumer) consume(ctx context.Context, s *session) error {
	if err := s.consumeCh.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	deliveries, err := s.consumeCh.Consume(c.broker.Queue(), c.tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	c.broker.setState(StateConsuming)
	c.logger.Info("Consuming report queue")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr, ok := <-s.closed:
			if !ok || amqpErr == nil {
				return errors.New("connection closed")
			}
			return amqpErr
		case d, ok := <-deliveries:
			if !ok {
				return errDeliveriesClosed
			}
			c.handleDelivery(ctx, d)
		}
	}
}

// handleDelivery runs the handler and settles the delivery. It never panics.
func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	logger := c.logger.With(
		"delivery_tag", d.DeliveryTag,
		"message_id", d.MessageId,
	)
	if d.Redelivered {
		logger.Warn("Processing redelivered report message")
	}

	if err := c.process(ctx, d); err != nil {
		logger.Error("Report message rejected", "error", err)
		if nackErr := d.Nack(false, false); nackErr != nil {
			logger.Error("Failed to nack report message", "error", nackErr)
			return
		}
		metrics.IncMessage(metrics.OutcomeNack)
		return
	}

	if ackErr := d.Ack(false); ackErr != nil {
		logger.Error("Failed to ack report message", "error", ackErr)
		return
	}
	metrics.IncMessage(metrics.OutcomeAck)
	logger.Info("Report message acknowledged")
}

// process calls the handler under the processing deadline. Cancelling the consumer
// does not cut short the in-flight message; the deadline still applies.
func (c *Consumer) process(ctx context.Context, d amqp.Delivery) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing message: %v", r)
		}
	}()

	processCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.broker.cfg.ProcessTimeout)
	defer cancel()

	return c.handler.HandleMessage(processCtx, Message{
		ID:          d.MessageId,
		Body:        d.Body,
		Redelivered: d.Redelivered,
		Timestamp:   d.Timestamp,
	})
}
