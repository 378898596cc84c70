package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/blog-api/internal/middleware"
	"github.com/deppfellow/blog-api/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler reports whether the service and its dependencies respond.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

func (h *HealthHandler) recordFailure(checkType string, elapsed time.Duration, err error) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	app.RecordCustomEvent("HealthCheckError", map[string]any{
		"check_type":       checkType,
		"operation":        "health_check",
		"error_type":       checkType + "_unhealthy",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})
}

func (h *HealthHandler) probe(ctx context.Context, name string, ping func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.recordFailure(name, elapsed, err)
		return CheckResult{Status: statusUnhealthy, ResponseTime: elapsed.String(), Error: err.Error()}
	}
	return CheckResult{Status: statusHealthy, ResponseTime: elapsed.String()}
}

// CheckHealth answers 200 when PostgreSQL responds and 503 otherwise.
// Redis is reported but does not affect the status: it only backs
// notifications.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	cfg := h.server.Config.Observability

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:      statusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]CheckResult),
	}

	ctx := c.Request().Context()

	if cfg.HealthCheckEnabled("database") && h.server.DB != nil {
		result := h.probe(ctx, "database", h.server.DB.Pool.Ping)
		response.Checks["database"] = result
		if result.Status != statusHealthy {
			response.Status = statusUnhealthy
			logger.Error().Str("error", result.Error).Msg("database health check failed")
		}
	}

	if cfg.HealthCheckEnabled("redis") && h.server.Redis != nil {
		result := h.probe(ctx, "redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
		response.Checks["redis"] = result
		if result.Status != statusHealthy {
			logger.Warn().Str("error", result.Error).Msg("redis health check failed")
		}
	}

	logger.Debug().
		Str("status", response.Status).
		Dur("total_duration", time.Since(start)).
		Msg("health check completed")

	status := http.StatusOK
	if response.Status != statusHealthy {
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, response)
}
