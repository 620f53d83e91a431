// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	domainerror "github.com/sales-reporter/backend/internal/domain/error"
	"github.com/sales-reporter/backend/internal/integration/entrypoint/dto"
)

const (
	// defaultMaxCalls is the number of operational calls an operator may make per window.
	defaultMaxCalls = 10
	// defaultWindowDuration is the default time window for rate limiting.
	defaultWindowDuration = 1 * time.Minute
)

// operatorWindow counts one operator's calls in the current window.
type operatorWindow struct {
	calls     int
	resetTime time.Time
}

// RateLimiter throttles the operational endpoints that send mail or publish reports.
// Calls are counted per operator token subject, or per client IP when the route
// runs without authentication.
type RateLimiter struct {
	mu             sync.Mutex
	windows        map[string]*operatorWindow
	maxCalls       int
	windowDuration time.Duration
	lastCleanup    time.Time
	now            func() time.Time
}

// NewRateLimiter creates a new rate limiter with default settings.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(defaultMaxCalls, defaultWindowDuration)
}

// NewRateLimiterWithConfig creates a new rate limiter with custom settings.
func NewRateLimiterWithConfig(maxCalls int, windowDuration time.Duration) *RateLimiter {
	return &RateLimiter{
		windows:        make(map[string]*operatorWindow),
		maxCalls:       maxCalls,
		windowDuration: windowDuration,
		now:            time.Now,
	}
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
// It must run after AuthMiddleware.Authenticate to key on the operator.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip rate limiting in E2E mode or test environment
		if os.Getenv("E2E_MODE") == "true" || os.Getenv("ENV") == "test" {
			c.Next()
			return
		}

		allowed, resetTime := rl.allow(limitKey(c))
		if !allowed {
			retryAfter := int(resetTime.Sub(rl.now()).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// limitKey names the bucket for a request.
func limitKey(c *gin.Context) string {
	if subject, ok := GetSubjectFromContext(c); ok && subject != "" {
		return "operator:" + subject
	}
	clientIP := c.ClientIP()
	if clientIP == "" {
		clientIP = c.Request.RemoteAddr
	}
	return "ip:" + clientIP
}

// allow records a call for key and reports whether it fits the window, along
// with the time the window resets.
func (rl *RateLimiter) allow(key string) (bool, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastCleanup) >= rl.windowDuration {
		rl.cleanupLocked(now)
		rl.lastCleanup = now
	}

	window, exists := rl.windows[key]
	if !exists || now.After(window.resetTime) {
		window = &operatorWindow{resetTime: now.Add(rl.windowDuration)}
		rl.windows[key] = window
	}

	if window.calls >= rl.maxCalls {
		return false, window.resetTime
	}
	window.calls++
	return true, window.resetTime
}

// Reset clears the rate limiter state.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.windows = make(map[string]*operatorWindow)
}

// Cleanup drops expired windows. allow also runs it once per window.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.cleanupLocked(rl.now())
}

func (rl *RateLimiter) cleanupLocked(now time.Time) {
	for key, window := range rl.windows {
		if now.After(window.resetTime) {
			delete(rl.windows, key)
		}
	}
}
