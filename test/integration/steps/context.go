// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sales-reporter/backend/config"
	"github.com/sales-reporter/backend/internal/domain/entity"
	"github.com/sales-reporter/backend/internal/infra/dependency"
	"github.com/sales-reporter/backend/internal/integration/email"
	"github.com/sales-reporter/backend/internal/integration/email/templates"
	"github.com/sales-reporter/backend/internal/integration/idempotency"
	"github.com/sales-reporter/backend/internal/integration/messaging"
	"github.com/sales-reporter/backend/internal/integration/persistence/model"
	"github.com/sales-reporter/backend/test/integration/mock"
)

const (
	testAdminSecret    = "test-admin-secret-for-integration"
	testReportReceiver = "owner@example.com"
)

// capturingPublisher stands in for the broker: reports are kept in memory and
// handed to the consumer side explicitly by the scenario.
type capturingPublisher struct {
	mu       sync.Mutex
	messages []messaging.Message
}

func (p *capturingPublisher) Publish(_ context.Context, report *entity.SalesReport) error {
	body, err := messaging.EncodeSalesReport(report)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, messaging.Message{
		ID:        uuid.NewString(),
		Body:      body,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

func (p *capturingPublisher) last() (messaging.Message, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.messages) == 0 {
		return messaging.Message{}, false
	}
	return p.messages[len(p.messages)-1], true
}

func (p *capturingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = nil
}

// harness is the process-wide application under test.
type harness struct {
	uri        string
	db         *mock.Db
	redis      *redis.Client
	mailAPI    *mock.ApiMock
	clock      *mock.Time
	publisher  *capturingPublisher
	dispatcher *email.ReportDispatcher
}

var (
	harnessOnce sync.Once
	app         *harness
)

// startHarness boots the API once per test binary and waits for /health.
func startHarness() (*harness, error) {
	var startErr error
	harnessOnce.Do(func() {
		app, startErr = newHarness()
	})
	if startErr != nil {
		return nil, startErr
	}
	if app == nil {
		return nil, fmt.Errorf("harness failed to start earlier")
	}
	return app, nil
}

func newHarness() (*harness, error) {
	gin.SetMode(gin.TestMode)

	cfg := config.Load()
	cfg.Server.Environment = "test"
	cfg.Admin.JWTSecret = testAdminSecret
	cfg.Report.Timezone = "UTC"

	h := &harness{
		db: mock.NewDb(map[string]any{
			"invoices": &model.InvoiceModel{},
		}),
		redis:     mock.NewRedis(),
		mailAPI:   mock.NewApiServer(),
		clock:     mock.NewTime(),
		publisher: &capturingPublisher{},
	}
	h.mailAPI.Start()

	emailRouter, err := email.NewRouter(email.RouterConfig{
		Provider:      email.ProviderResend,
		ResendAPIKey:  "re_test_key",
		ResendBaseURL: h.mailAPI.GetUrl(),
		SMTP: email.SMTPConfig{
			FromName:  "Sales Reporter",
			FromEmail: "reports@example.com",
		},
	})
	if err != nil {
		return nil, err
	}

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ledger := idempotency.NewRedisLedger(h.redis, time.Hour)
	h.dispatcher = email.NewReportDispatcher(emailRouter, renderer, ledger, testReportReceiver, logger)

	injector := dependency.NewInjector(cfg, h.db.DbConn, dependency.Collaborators{
		EmailSender:   emailRouter,
		EmailProvider: emailRouter.Provider(),
		Publisher:     h.publisher,
		DBHealth:      func() bool { return h.db != nil && h.db.DbConn != nil },
		BrokerState:   func() string { return messaging.StateDisconnected.String() },
		Clock:         h.clock.Now,
		Logger:        logger,
	})
	engine := injector.Router.Setup(cfg.Server.Environment)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	h.uri = "http://" + listener.Addr().String()

	go func() {
		_ = http.Serve(listener, engine)
	}()

	for i := 0; i < 50; i++ {
		resp, err := http.Get(h.uri + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return h, nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return nil, fmt.Errorf("api did not become healthy at %s", h.uri)
}

// reset clears all state shared between scenarios.
func (h *harness) reset() error {
	if err := h.db.ClearDB(); err != nil {
		return err
	}
	if err := mock.ClearRedis(h.redis); err != nil {
		return err
	}
	h.mailAPI.ClearResponses(http.MethodPost, "/emails")
	h.publisher.reset()
	h.clock.Reset()
	return nil
}
