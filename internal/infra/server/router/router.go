// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/sales-reporter/backend/internal/integration/entrypoint/controller"
	"github.com/sales-reporter/backend/internal/integration/entrypoint/middleware"
	"github.com/sales-reporter/backend/internal/metrics"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine            *gin.Engine
	healthController  *controller.HealthController
	invoiceController *controller.InvoiceController
	reportController  *controller.ReportController
	emailController   *controller.EmailController
	adminRateLimiter  *middleware.RateLimiter
	authMiddleware    *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	invoiceController *controller.InvoiceController,
	reportController *controller.ReportController,
	emailController *controller.EmailController,
	adminRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:  healthController,
		invoiceController: invoiceController,
		reportController:  reportController,
		emailController:   emailController,
		adminRateLimiter:  adminRateLimiter,
		authMiddleware:    authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()
	r.engine.Use(metrics.HTTPMiddleware())

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check and metrics endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	r.engine.GET("/metrics", metrics.Handler())
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	if r.invoiceController != nil {
		invoices := r.engine.Group("/invoices")
		{
			invoices.POST("", r.invoiceController.Create)
			invoices.GET("", r.invoiceController.List)
			invoices.GET("/:id", r.invoiceController.Get)
		}
	}

	if r.emailController != nil {
		r.engine.GET("/email/status", r.emailController.Status)
	}

	// Operational routes (require an admin token)
	if r.authMiddleware == nil {
		return
	}

	admin := r.engine.Group("")
	admin.Use(r.authMiddleware.Authenticate())
	if r.adminRateLimiter != nil {
		admin.Use(r.adminRateLimiter.Middleware())
	}
	{
		if r.emailController != nil {
			admin.POST("/email/send", r.emailController.Send)
		}
		if r.reportController != nil {
			admin.POST("/reports/daily", r.reportController.GenerateDaily)
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
