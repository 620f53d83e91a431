// Package dependency provides dependency injection for the application.
package dependency

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/sales-reporter/backend/config"
	"github.com/sales-reporter/backend/internal/application/adapter"
	"github.com/sales-reporter/backend/internal/application/usecase/invoice"
	"github.com/sales-reporter/backend/internal/application/usecase/report"
	"github.com/sales-reporter/backend/internal/infra/server/router"
	"github.com/sales-reporter/backend/internal/integration/adapters"
	"github.com/sales-reporter/backend/internal/integration/entrypoint/controller"
	"github.com/sales-reporter/backend/internal/integration/entrypoint/middleware"
	"github.com/sales-reporter/backend/internal/integration/persistence"
)

// Collaborators are the process-level services the HTTP layer depends on.
type Collaborators struct {
	EmailSender   adapter.EmailSender
	EmailProvider string
	Publisher     adapter.ReportPublisher
	DBHealth      func() bool
	BrokerState   func() string
	Clock         func() time.Time // Defaults to time.Now
	Logger        *slog.Logger
}

// Injector holds all application dependencies.
type Injector struct {
	Config         *config.Config
	DB             *gorm.DB
	Router         *router.Router
	InvoiceRepo    adapter.InvoiceRepository
	GenerateReport *report.GenerateDailyReportUseCase
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, deps Collaborators) *Injector {
	location := cfg.Report.Location()

	// Create repositories
	invoiceRepo := persistence.NewInvoiceRepository(db)

	// Create adapters/services
	tokenService := adapters.NewTokenService(cfg.Admin.JWTSecret)

	// Create invoice use cases
	createInvoiceUseCase := invoice.NewCreateInvoiceUseCase(invoiceRepo)
	getInvoiceUseCase := invoice.NewGetInvoiceUseCase(invoiceRepo)
	listInvoicesUseCase := invoice.NewListInvoicesUseCase(invoiceRepo)

	// Create report use cases
	generateReportUseCase := report.NewGenerateDailyReportUseCase(invoiceRepo, deps.Publisher, location, deps.Logger)

	// Create controllers
	healthController := controller.NewHealthController(deps.DBHealth, deps.BrokerState)
	invoiceController := controller.NewInvoiceController(
		createInvoiceUseCase,
		getInvoiceUseCase,
		listInvoicesUseCase,
	)
	reportController := controller.NewReportController(generateReportUseCase, location, deps.Clock)

	var emailController *controller.EmailController
	if deps.EmailSender != nil {
		emailController = controller.NewEmailController(deps.EmailSender, deps.EmailProvider)
	}

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var adminRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		adminRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		adminRateLimiter = middleware.NewRateLimiter()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService, cfg.Admin.Enabled())

	// Create router
	r := router.NewRouter(healthController, invoiceController, reportController, emailController, adminRateLimiter, authMiddleware)

	return &Injector{
		Config:         cfg,
		DB:             db,
		Router:         r,
		InvoiceRepo:    invoiceRepo,
		GenerateReport: generateReportUseCase,
	}
}
