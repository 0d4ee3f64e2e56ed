package main

import (
	"net/http"

	"report_handler/internal/cache"
	"report_handler/internal/codec"
	"report_handler/internal/config"
	"report_handler/internal/db"
	"report_handler/internal/observability"
	"report_handler/internal/queue"
	"report_handler/internal/report"
	"report_handler/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg := config.Load()

	database := db.Init(&cfg.DB)
	defer func() {
		if err := database.Close(); err != nil {
			logrus.WithError(err).Fatal("Failed to close database connection")
		}
	}()

	if err := db.Migrate(database); err != nil {
		logrus.WithError(err).Fatal("Failed to run database migrations")
	}

	rdb := cache.SetupRedis(&cfg.Redis)
	defer func() {
		if err := rdb.Close(); err != nil {
			logrus.WithError(err).Fatal("Failed to close redis connection")
		}
	}()

	conn := queue.SetupRabbitMQ(&cfg.RabbitMQ)
	defer func() {
		if err := conn.Close(); err != nil {
			logrus.Fatalf("Failed to close RabbitMQ connection")
		}
	}()

	consumerChannel, err := queue.CreateChannel(conn)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create RabbitMQ channel")
	}

	if _, err := queue.DeclareQueue(consumerChannel, queue.ReportTasksQueue); err != nil {
		logrus.WithError(err).Fatal("Failed to declare RabbitMQ queue")
	}

	if err := consumerChannel.Close(); err != nil {
		logrus.WithError(err).Fatal("Failed to close RabbitMQ channel")
	}

	// Initialize Prometheus metrics
	observability.InitMetrics()
	logrus.Info("Metrics initialized")

	// Start metrics HTTP server for Prometheus scraping
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		logrus.Infof("Worker metrics server started on :%s", cfg.MetricsPort)
		if err := http.ListenAndServe(":"+cfg.MetricsPort, nil); err != nil {
			logrus.WithError(err).Fatal("Failed to start metrics server")
		}
	}()

	repo := report.NewReportRepository()
	store := worker.NewTaskStore(database, repo)
	revoked := cache.NewRevocationList(rdb)
	orchestrator := worker.NewOrchestrator(store, codec.NewZlib(), revoked)

	for i := 1; i <= cfg.WorkerCount; i++ {
		go worker.StartWorker(conn, orchestrator, i)
	}

	select {}
}
