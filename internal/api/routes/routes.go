package routes

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"jobfill/internal/ai"
	"jobfill/internal/api/handlers"
	"jobfill/internal/api/middleware"
	"jobfill/internal/background"
	"jobfill/internal/config"
	"jobfill/internal/engine"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, eng *engine.Engine, aiManager *ai.Manager, taskManager background.TaskManager) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	// Selective timeout: default for most endpoints, longer for AI-heavy ones
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout, 2*time.Minute))

	tasks := handlers.NewTaskService(eng, taskManager)

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(aiManager, taskManager))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(eng, aiManager))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		v1.POST("/analyze", handlers.AnalyzeHandler(eng))
		v1.POST("/analyze/url", handlers.AnalyzeURLHandler(eng, tasks))

		// Fill routes
		fill := v1.Group("/fill")
		{
			fill.POST("", handlers.FillHandler(eng, tasks, false))
			fill.POST("/ai", handlers.FillHandler(eng, tasks, true))
		}

		v1.POST("/generate", handlers.GenerateContentHandler(eng))
		v1.POST("/mutations", handlers.MutationsHandler(eng))
		v1.POST("/messages", handlers.MessagesHandler(eng))

		v1.GET("/tasks/:id", handlers.TaskStatusHandler(taskManager))
		v1.GET("/forms/:session", handlers.FormsHandler(eng))
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"service": "Jobfill Form Engine",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
