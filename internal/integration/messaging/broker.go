package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sales-reporter/backend/internal/metrics"
)

// State is the lifecycle state of the broker session.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConsuming
)

// String returns the state name reported by the health endpoint.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConsuming:
		return "consuming"
	default:
		return "disconnected"
	}
}

// Channel is the subset of *amqp.Channel used by the report queue.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// Connection is the subset of *amqp.Connection used by the report queue.
type Connection interface {
	Channel() (Channel, error)
	NotifyClose(receiver chan *amqp.Error) chan *amqp.Error
	Close() error
	IsClosed() bool
}

// Dialer opens a broker connection.
type Dialer func(uri string) (Connection, error)

// DialAMQP dials a RabbitMQ server.
func DialAMQP(uri string) (Connection, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, err
	}
	return &amqpConnection{Connection: conn}, nil
}

type amqpConnection struct {
	*amqp.Connection
}

func (c *amqpConnection) Channel() (Channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// Config holds the report queue settings.
type Config struct {
	URI             string
	Queue           string
	DeadLetterQueue string // Empty drops rejected messages

	ReconnectInitial  time.Duration
	ReconnectMax      time.Duration
	ReconnectAttempts int // 0 retries forever

	ProcessTimeout time.Duration
}

// DefaultConfig returns the default queue configuration.
func DefaultConfig() Config {
	return Config{
		Queue:            DefaultQueueName,
		ReconnectInitial: time.Second,
		ReconnectMax:     30 * time.Second,
		ProcessTimeout:   30 * time.Second,
	}
}

// session is one live connection with its publish and consume channels.
type session struct {
	conn      Connection
	publishCh Channel
	consumeCh Channel
	closed    chan *amqp.Error
}

// Broker owns the single process-wide broker connection.
// The consumer drives its lifecycle and the publisher borrows its publish channel.
type Broker struct {
	cfg    Config
	dial   Dialer
	logger *slog.Logger

	mu        sync.RWMutex
	publishCh Channel

	state atomic.Int32
}

// NewBroker creates a new Broker. A nil dialer uses DialAMQP.
func NewBroker(cfg Config, dial Dialer, logger *slog.Logger) *Broker {
	defaults := DefaultConfig()
	if cfg.Queue == "" {
		cfg.Queue = defaults.Queue
	}
	if cfg.ReconnectInitial <= 0 {
		cfg.ReconnectInitial = defaults.ReconnectInitial
	}
	if cfg.ReconnectMax < cfg.ReconnectInitial {
		cfg.ReconnectMax = cfg.ReconnectInitial
	}
	if cfg.ProcessTimeout <= 0 {
		cfg.ProcessTimeout = defaults.ProcessTimeout
	}
	if dial == nil {
		dial = DialAMQP
	}
	if logger == nil {
		logger = slog.Default()
	}

	b := &Broker{
		cfg:    cfg,
		dial:   dial,
		logger: logger.With("queue", cfg.Queue),
	}
	b.setState(StateDisconnected)
	return b
}

// State returns the current session state.
func (b *Broker) State() State {
	return State(b.state.Load())
}

// Queue returns the report queue name.
func (b *Broker) Queue() string {
	return b.cfg.Queue
}

func (b *Broker) setState(s State) {
	b.state.Store(int32(s))
	metrics.SetConsumerState(int(s))
}

// publishChannel returns the live publish channel or nil when none is established.
func (b *Broker) publishChannel() Channel {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.publishCh
}

// connect dials with exponential backoff until a session is open, the attempt
// budget is spent, or ctx is cancelled.
func (b *Broker) connect(ctx context.Context) (*session, error) {
	delay := b.cfg.ReconnectInitial

	for attempt := 1; ; attempt++ {
		b.setState(StateConnecting)

		s, err := b.open()
		if err == nil {
			b.logger.Info("Connected to message broker", "attempt", attempt)
			return s, nil
		}
		b.setState(StateDisconnected)

		if b.cfg.ReconnectAttempts > 0 && attempt >= b.cfg.ReconnectAttempts {
			return nil, fmt.Errorf("message broker unreachable after %d attempts: %w", attempt, err)
		}

		b.logger.Error("Failed to connect to message broker",
			"attempt", attempt,
			"retry_in", delay,
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > b.cfg.ReconnectMax {
			delay = b.cfg.ReconnectMax
		}
	}
}

// open dials, declares the topology and opens both channels.
func (b *Broker) open() (*session, error) {
	conn, err := b.dial(b.cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	publishCh, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open publish channel: %w", err)
	}

	if err := b.declare(publishCh); err != nil {
		_ = conn.Close()
		return nil, err
	}

	consumeCh, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open consume channel: %w", err)
	}

	s := &session{
		conn:      conn,
		publishCh: publishCh,
		consumeCh: consumeCh,
		closed:    conn.NotifyClose(make(chan *amqp.Error, 1)),
	}

	b.mu.Lock()
	b.publishCh = publishCh
	b.mu.Unlock()

	return s, nil
}

// declare declares the durable report queue, and its dead letter queue when configured.
// Declaring is idempotent so producer and consumer may start in either order.
func (b *Broker) declare(ch Channel) error {
	var args amqp.Table
	if b.cfg.DeadLetterQueue != "" {
		if _, err := ch.QueueDeclare(b.cfg.DeadLetterQueue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare dead letter queue %s: %w", b.cfg.DeadLetterQueue, err)
		}
		args = amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": b.cfg.DeadLetterQueue,
		}
	}

	if _, err := ch.QueueDeclare(b.cfg.Queue, true, false, false, false, args); err != nil {
		return fmt.Errorf("declare queue %s: %w", b.cfg.Queue, err)
	}
	return nil
}

// release detaches the publish channel and closes the session, channels first.
func (b *Broker) release(s *session) {
	b.mu.Lock()
	if b.publishCh == s.publishCh {
		b.publishCh = nil
	}
	b.mu.Unlock()

	var errs []error
	if err := s.consumeCh.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		errs = append(errs, err)
	}
	if err := s.publishCh.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		errs = append(errs, err)
	}
	if !s.conn.IsClosed() {
		if err := s.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		b.logger.Warn("Error closing broker session", "error", err)
	}

	b.setState(StateDisconnected)
}
