package worker

import (
	"context"
	"encoding/json"
	"time"

	"report_handler/internal/observability"
	"report_handler/internal/queue"
	"report_handler/internal/report"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const maxRetries = 3

func republishWithRetry(ch *amqp.Channel, msg *amqp.Delivery, retryCount int32) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Create new headers with incremented retry count
	headers := amqp.Table{}
	if msg.Headers != nil {
		headers = msg.Headers
	}
	headers["x-retry-count"] = retryCount

	return ch.PublishWithContext(
		ctx,
		"",             // exchange
		msg.RoutingKey, // routing key (queue name)
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType: msg.ContentType,
			Body:        msg.Body,
			Headers:     headers,
		},
	)
}

func StartWorker(conn *amqp.Connection, orchestrator *Orchestrator, id int) {
	ch, err := conn.Channel()
	if err != nil {
		logrus.Fatalf("Worker %d failed to open channel: %v", id, err)
	}
	defer ch.Close()

	if err := ch.Qos(1, 0, false); err != nil {
		logrus.Fatalf("Worker %d failed to set QoS: %v", id, err)
	}

	msgs, err := ch.Consume(
		queue.ReportTasksQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logrus.Fatalf("Worker %d failed to start consuming messages: %v", id, err)
		return
	}

	logrus.Infof("Worker %d started", id)

	for msg := range msgs {
		// Track message consumption
		observability.GlobalMetrics.QueueMessagesConsumed.WithLabelValues(queue.ReportTasksQueue).Inc()

		var job report.GenerationJob
		if err := json.Unmarshal(msg.Body, &job); err != nil {
			logrus.Error("invalid job payload")
			msg.Nack(false, false)
			continue
		}

		retryCount := int32(0)
		if msg.Headers != nil {
			if count, ok := msg.Headers["x-retry-count"].(int32); ok {
				retryCount = count
			}
		}

		logrus.Infof(
			"Worker %d processing task=%d type=%s (retry: %d)",
			id,
			job.TaskPK,
			job.ReportType,
			retryCount,
		)

		// Start tracking task processing time
		startTime := time.Now()

		procErr := orchestrator.Process(&job)

		// Record task processing duration
		duration := time.Since(startTime).Seconds()
		observability.GlobalMetrics.TaskProcessingDuration.WithLabelValues(job.ReportType).Observe(duration)

		if procErr != nil {
			logrus.WithError(procErr).Errorf("Worker %d: unexpected error processing task %d", id, job.TaskPK)

			// Check retry logic
			if retryCount >= maxRetries {
				if err := orchestrator.Abandon(&job); err != nil {
					logrus.WithError(err).Error("Failed to mark task as failed after max retries")
				}
				observability.GlobalMetrics.TasksProcessedTotal.WithLabelValues(job.ReportType, "max_retries").Inc()
				msg.Nack(false, false)
				continue
			}

			logrus.Infof("Worker %d: Task %d failed, requeuing (retry %d/%d)", id, job.TaskPK, retryCount+1, maxRetries)

			if err := orchestrator.MarkRetry(&job); err != nil {
				logrus.WithError(err).Warnf("Failed to mark task %d as RETRY", job.TaskPK)
			}

			if err := republishWithRetry(ch, &msg, retryCount+1); err != nil {
				logrus.WithError(err).Error("Failed to republish message")
				msg.Nack(false, false)
				continue
			}

			// Track republishing
			observability.GlobalMetrics.QueueMessagesPublished.WithLabelValues(queue.ReportTasksQueue).Inc()
			msg.Ack(false)
			continue
		}

		msg.Ack(false)
	}
}
