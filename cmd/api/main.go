// Package main is the entry point for the Sales Reporter API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sales-reporter/backend/config"
	"github.com/sales-reporter/backend/internal/application/adapter"
	"github.com/sales-reporter/backend/internal/infra/db"
	"github.com/sales-reporter/backend/internal/infra/dependency"
	"github.com/sales-reporter/backend/internal/infra/scheduler"
	"github.com/sales-reporter/backend/internal/integration/email"
	"github.com/sales-reporter/backend/internal/integration/email/templates"
	"github.com/sales-reporter/backend/internal/integration/idempotency"
	"github.com/sales-reporter/backend/internal/integration/messaging"
	"github.com/sales-reporter/backend/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	slog.Info("Starting Sales Reporter API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"queue", cfg.RabbitMQ.Queue,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	database, err := db.NewPostgresConnection(&cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	// Run database migrations
	if err := database.AutoMigrate(&model.InvoiceModel{}); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed successfully")

	// Delivery ledger (optional)
	var ledger adapter.DeliveryLedger
	if cfg.Redis.IdempotencyEnabled {
		client, err := idempotency.NewClient(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("Invalid Redis configuration", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		redisLedger := idempotency.NewRedisLedger(client, cfg.Redis.IdempotencyTTL)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisLedger.Ping(pingCtx); err != nil {
			slog.Warn("Redis unreachable, duplicate suppression will fail open", "error", err)
		}
		cancel()
		ledger = redisLedger
		slog.Info("Delivery ledger enabled", "ttl", cfg.Redis.IdempotencyTTL.String())
	}

	// Email
	emailRouter, err := email.NewRouter(email.RouterConfig{
		Provider:      cfg.Email.Provider,
		ResendAPIKey:  cfg.Email.ResendAPIKey,
		ResendBaseURL: cfg.Email.ResendBaseURL,
		SMTP: email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUser,
			Password:  cfg.Email.SMTPPassword,
			FromName:  cfg.Email.FromName,
			FromEmail: cfg.Email.FromEmail,
		},
	})
	if err != nil {
		slog.Error("Failed to configure email provider", "error", err)
		os.Exit(1)
	}

	renderer, err := templates.NewRenderer()
	if err != nil {
		slog.Error("Failed to load email templates", "error", err)
		os.Exit(1)
	}

	if cfg.Email.ReportTo == "" {
		slog.Warn("EMAIL_TO is not set, every report message will be rejected")
	}

	// Report queue
	broker := messaging.NewBroker(messaging.Config{
		URI:               cfg.RabbitMQ.URI,
		Queue:             cfg.RabbitMQ.Queue,
		DeadLetterQueue:   cfg.RabbitMQ.DeadLetterQueue,
		ReconnectInitial:  cfg.RabbitMQ.ReconnectInitial,
		ReconnectMax:      cfg.RabbitMQ.ReconnectMax,
		ReconnectAttempts: cfg.RabbitMQ.ReconnectAttempts,
		ProcessTimeout:    cfg.RabbitMQ.ProcessTimeout,
	}, nil, logger)
	publisher := messaging.NewPublisher(broker)
	dispatcher := email.NewReportDispatcher(emailRouter, renderer, ledger, cfg.Email.ReportTo, logger)
	consumer := messaging.NewConsumer(broker, dispatcher, "sales-reporter")

	// Wire the HTTP layer
	injector := dependency.NewInjector(cfg, database.DB(), dependency.Collaborators{
		EmailSender:   emailRouter,
		EmailProvider: emailRouter.Provider(),
		Publisher:     publisher,
		DBHealth:      database.HealthCheck,
		BrokerState:   func() string { return broker.State().String() },
		Logger:        logger,
	})
	engine := injector.Router.Setup(cfg.Server.Environment)

	var wg sync.WaitGroup

	// The consumer never takes the process down; it only logs when it gives up.
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := consumer.Run(ctx); err != nil {
			slog.Error("Report consumer stopped", "error", err)
		}
	}()

	if cfg.Report.ScheduleEnabled {
		job := scheduler.NewDailyReport(injector.GenerateReport, cfg.Report.Interval, cfg.Report.Location(), logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			job.Start(ctx)
		}()
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	stop()

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	wg.Wait()

	slog.Info("Server exited properly")
}
