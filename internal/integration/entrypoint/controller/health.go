// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker func() bool
	brokerState     func() string
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Broker    string `json:"broker"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
// brokerState reports the report consumer's connection state.
func NewHealthController(dbHealthChecker func() bool, brokerState func() string) *HealthController {
	return &HealthController{
		dbHealthChecker: dbHealthChecker,
		brokerState:     brokerState,
	}
}

// Check handles GET /health requests.
// It returns the current health status of the API and its dependencies.
// The endpoint answers 200 while the broker is down so the process is not restarted for it.
func (h *HealthController) Check(c *gin.Context) {
	dbStatus := "disconnected"
	if h.dbHealthChecker != nil && h.dbHealthChecker() {
		dbStatus = "connected"
	}

	brokerStatus := "unknown"
	if h.brokerState != nil {
		brokerStatus = h.brokerState()
	}

	response := HealthResponse{
		Status:    "ok",
		Database:  dbStatus,
		Broker:    brokerStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, response)
}
