package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"

	"github.com/workloghq/timesheet-api/internal/config"
	"github.com/workloghq/timesheet-api/internal/database"
	"github.com/workloghq/timesheet-api/internal/handlers"
	"github.com/workloghq/timesheet-api/internal/metrics"
	"github.com/workloghq/timesheet-api/internal/middleware"
	"github.com/workloghq/timesheet-api/internal/repository"
	"github.com/workloghq/timesheet-api/internal/services"
	"github.com/workloghq/timesheet-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize services
	svcs := services.NewServices(repos)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, db)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Prometheus scrape endpoint (public)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Check)

		// Protected routes
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Time entries. The static audit-logs route is registered
			// before the parameterized routes so Gin matches it first.
			tasks := protected.Group("/tasks")
			{
				tasks.GET("/audit-logs", h.Audit.Index)
				tasks.GET("", h.Entry.Index)
				tasks.POST("", h.Entry.Create)
				tasks.GET("/:task_id", h.Entry.Show)
				tasks.PUT("/:task_id", h.Entry.Update)
				tasks.DELETE("/:task_id", h.Entry.Delete)
				tasks.GET("/:task_id/audit-logs", h.Audit.ByEntry)
			}

			// Aggregation and export
			protected.GET("/time-logs/stats", h.Stats.Stats)

			workHours := protected.Group("/work-hours")
			{
				workHours.GET("", h.Stats.WorkHours)
				workHours.GET("/export", h.Stats.Export)
			}

			// Master data lookups
			master := protected.Group("/master")
			{
				master.GET("/platforms", h.Reference.Platforms)
				master.GET("/tasks", h.Reference.Tasks)
				master.GET("/subtasks", h.Reference.Subtasks)
				master.GET("/statuses", h.Reference.Statuses)
			}
		}
	}

	return router
}
