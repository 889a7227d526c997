package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"jobfill/internal/ai"
	"jobfill/internal/background"
	"jobfill/internal/engine"
	"jobfill/internal/logging"
	"jobfill/pkg/models"
	"jobfill/pkg/utils"
)

var startTime = time.Now()

const serviceVersion = "1.0.0"

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	requestID := utils.GenerateRequestID()
	logger := logging.GetGlobalLogger()

	logger.Debug("Health check requested", map[string]interface{}{"request_id": requestID})

	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}
	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler reports whether the service can take fill traffic.
func ReadinessHandler(aiManager *ai.Manager, taskManager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{
			"api": "ok",
		}
		status := "ready"
		code := http.StatusOK

		if aiManager.IsHealthy() {
			checks["ai"] = "ok"
		} else {
			// Profile-only filling still works, so degraded AI is a warning
			// rather than a readiness failure.
			checks["ai"] = "degraded"
		}

		if taskManager.IsHealthy() {
			checks["tasks"] = "ok"
		} else {
			checks["tasks"] = "failed"
			status = "not ready"
			code = http.StatusServiceUnavailable
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   serviceVersion,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Uptime:    time.Since(startTime),
	})
}

// StatusHandler provides detailed service status including engine state
// and generation statistics.
func StatusHandler(eng *engine.Engine, aiManager *ai.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":      "operational",
			"version":     serviceVersion,
			"uptime":      utils.FormatDuration(time.Since(startTime)),
			"timestamp":   time.Now(),
			"engine":      eng.Stats(),
			"ai_provider": aiManager.GetProviderName(),
			"ai_stats":    aiManager.GetStats(),
		})
	}
}
