package handler

import (
	"database/sql"
	"net/http"

	"report_handler/internal/config"
	"report_handler/internal/middleware"
	"report_handler/internal/observability"
	"report_handler/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"
)

// SetupHandler initializes all dependencies and routes
func SetupHandler(db *sql.DB, conn *amqp091.Connection, redisClient *redis.Client, cfg *config.Config) *gin.Engine {

	r := gin.Default()

	// Metrics middleware goes in before any routes are registered
	r.Use(middleware.PrometheusMiddleware(observability.GlobalMetrics))

	// Initialize repository, service and controller
	reportRepo := report.NewReportRepository()
	reportService := report.NewReportService(reportRepo, db, conn, redisClient)
	reportController := report.NewReportController(reportService)

	// Setup routes
	setupRoutes(r, reportController, redisClient, cfg)

	return r
}

// setupRoutes configures all application routes
func setupRoutes(r *gin.Engine, reportCtrl *report.ReportController, redisClient *redis.Client, cfg *config.Config) {

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.AppName})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Report endpoints
	// Write operations - more strict
	r.POST("/:report_type",
		middleware.RateLimiterMiddleware(redisClient, middleware.ConservativeRateLimiter()),
		reportCtrl.SubmitReport,
	)

	// Read operations - more generous, clients poll these
	r.GET("/:report_type/:task_id",
		middleware.RateLimiterMiddleware(redisClient, middleware.GenerousRateLimiter()),
		reportCtrl.GetReportStatus,
	)
	r.GET("/reports/:task_id/:report_id",
		middleware.RateLimiterMiddleware(redisClient, middleware.GenerousRateLimiter()),
		reportCtrl.GetReportContent,
	)

	// Admin endpoints - destructive operations get the strict limiter
	tasks := r.Group("/tasks")
	{
		tasks.GET("",
			middleware.RateLimiterMiddleware(redisClient, middleware.GenerousRateLimiter()),
			reportCtrl.ListTasks,
		)
		tasks.POST("/:task_id/revoke",
			middleware.RateLimiterMiddleware(redisClient, middleware.StrictRateLimiter()),
			reportCtrl.RevokeTask,
		)
		tasks.DELETE("/:task_id",
			middleware.RateLimiterMiddleware(redisClient, middleware.StrictRateLimiter()),
			reportCtrl.DeleteTask,
		)
	}
}
