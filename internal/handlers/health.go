package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Service identity reported by health and info endpoints
const (
	ServiceName    = "Code Wizard API"
	ServiceVersion = "2.0.0"
)

// Pinger checks one backing dependency
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping calls f(ctx)
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthOptions configures the health handler
type HealthOptions struct {
	Started         time.Time
	ModelConfigured bool
	Dependencies    map[string]Pinger // nil values are reported as not configured
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	gen  Generator
	opts HealthOptions
	now  func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(gen Generator, opts HealthOptions) *HealthHandler {
	if opts.Started.IsZero() {
		opts.Started = time.Now()
	}
	return &HealthHandler{gen: gen, opts: opts, now: time.Now}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status         string            `json:"status"`
	Service        string            `json:"service"`
	Version        string            `json:"version"`
	Timestamp      string            `json:"timestamp"`
	Uptime         string            `json:"uptime"`
	ModelAvailable bool              `json:"model_available"`
	Dependencies   map[string]string `json:"dependencies,omitempty"`
}

// FormatUptime renders a duration as "Hh Mm"
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int(d%time.Hour) / int(time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func (h *HealthHandler) base() HealthResponse {
	available := h.gen.IsBackendAvailable()
	status := "healthy"
	if !available {
		status = "degraded"
	}
	now := h.now()
	return HealthResponse{
		Status:         status,
		Service:        ServiceName,
		Version:        ServiceVersion,
		Timestamp:      now.Format(time.RFC3339),
		Uptime:         FormatUptime(now.Sub(h.opts.Started)),
		ModelAvailable: available,
	}
}

// Health returns basic health status
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.base())
}

// DeepHealth returns health status with dependency checks
// @Summary Dependency health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health/deep [get]
func (h *HealthHandler) DeepHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp := h.base()
	resp.Dependencies = make(map[string]string, len(h.opts.Dependencies)+1)
	allHealthy := true

	for name, p := range h.opts.Dependencies {
		if p == nil {
			resp.Dependencies[name] = "not configured"
			continue
		}
		if err := p.Ping(ctx); err != nil {
			resp.Dependencies[name] = "unhealthy: " + err.Error()
			allHealthy = false
			continue
		}
		resp.Dependencies[name] = "healthy"
	}

	switch {
	case !h.opts.ModelConfigured:
		resp.Dependencies["model"] = "not configured"
	case resp.ModelAvailable:
		resp.Dependencies["model"] = "healthy"
	default:
		resp.Dependencies["model"] = "unhealthy"
		allHealthy = false
	}

	httpStatus := http.StatusOK
	if !allHealthy {
		resp.Status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, resp)
}
