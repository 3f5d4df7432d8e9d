package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kmarfadi/munasaba-backend/pkg/response"
)

const readinessTimeout = 2 * time.Second

// Checker reports whether a dependency is reachable
type Checker func(ctx context.Context) error

// HealthHandler serves the liveness and readiness endpoints
type HealthHandler struct {
	serviceName string
	version     string
	checks      map[string]Checker
}

// NewHealthHandler creates a HealthHandler; checks are run on /ready
func NewHealthHandler(serviceName, version string, checks map[string]Checker) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, checks: checks}
}

// Health always answers while the process is serving
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(gin.H{
		"status":  "ok",
		"service": h.serviceName,
		"version": h.version,
	}))
}

// Ready pings every dependency
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	ready := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			ready = false
			continue
		}
		results[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, &response.Response{
			Success: false,
			Data:    gin.H{"status": "not_ready", "checks": results},
			Error:   &response.ErrorInfo{Code: response.ErrCodeServiceUnavailable, Message: "Dependencies unavailable"},
		})
		return
	}
	c.JSON(http.StatusOK, response.Success(gin.H{"status": "ready", "checks": results}))
}
