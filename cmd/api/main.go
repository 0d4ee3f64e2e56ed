package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"report_handler/internal/cache"
	"report_handler/internal/config"
	"report_handler/internal/db"
	"report_handler/internal/handler"
	"report_handler/internal/observability"
	"report_handler/internal/queue"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	config := config.Load()
	database := db.Init(&config.DB)

	defer func() {
		if err := database.Close(); err != nil {
			logrus.WithError(err).Fatal("Failed to close database connection")
		}
	}()

	if err := db.Migrate(database); err != nil {
		logrus.WithError(err).Fatal("Failed to run database migrations")
	}

	rdb := cache.SetupRedis(&config.Redis)
	defer func() {
		if err := rdb.Close(); err != nil {
			logrus.WithError(err).Fatal("Failed to close redis connection")
		}
	}()

	conn := queue.SetupRabbitMQ(&config.RabbitMQ)
	defer func() {
		if err := conn.Close(); err != nil {
			logrus.WithError(err).Fatal("Failed to close RabbitMQ connection")
		}
	}()

	// Declare the queue up front so tasks submitted before any worker
	// starts are not dropped
	ch, err := queue.CreateChannel(conn)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open RabbitMQ channel")
	}
	if _, err := queue.DeclareQueue(ch, queue.ReportTasksQueue); err != nil {
		logrus.WithError(err).Fatal("Failed to declare report tasks queue")
	}
	ch.Close()

	// Initialize Prometheus metrics
	observability.InitMetrics()
	logrus.Info("Metrics initialized")

	r := handler.SetupHandler(database, conn, rdb, config)

	srv := &http.Server{
		Addr:    ":" + config.AppPort,
		Handler: r,
	}

	go func() {
		logrus.Infof("Starting server on :%s", config.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")
}
