package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics adalah struct yang berisi semua custom metrics aplikasi kita
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Report Task Metrics
	TasksSubmittedTotal    *prometheus.CounterVec
	TasksProcessedTotal    *prometheus.CounterVec
	TaskProcessingDuration *prometheus.HistogramVec
	ReportsGeneratedTotal  *prometheus.CounterVec

	// Queue (RabbitMQ) Metrics
	QueueMessagesPublished *prometheus.CounterVec
	QueueMessagesConsumed  *prometheus.CounterVec
}

// NewMetrics membuat instance baru dari Metrics dengan semua metric terdaftar
func NewMetrics() *Metrics {
	return &Metrics{
		// HTTP Metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets, // [0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10]
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		// Report Task Metrics
		TasksSubmittedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_tasks_submitted_total",
				Help: "Total number of report tasks submitted",
			},
			[]string{"report_type"},
		),

		TasksProcessedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_tasks_processed_total",
				Help: "Total number of report tasks processed",
			},
			[]string{"report_type", "status"}, // status: success, failure, max_retries
		),

		TaskProcessingDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "report_task_processing_duration_seconds",
				Help:    "Duration of report task processing in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60}, // Custom buckets untuk report generation
			},
			[]string{"report_type"},
		),

		ReportsGeneratedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_generated_total",
				Help: "Total number of per-student reports generated",
			},
			[]string{"report_type", "outcome"}, // outcome: success, failed
		),

		// Queue Metrics
		QueueMessagesPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_messages_published_total",
				Help: "Total number of messages published to the queue",
			},
			[]string{"queue_name"},
		),

		QueueMessagesConsumed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_messages_consumed_total",
				Help: "Total number of messages consumed from the queue",
			},
			[]string{"queue_name"},
		),
	}
}

// GlobalMetrics adalah instance global dari Metrics yang bisa digunakan di seluruh aplikasi
var GlobalMetrics *Metrics

// InitMetrics menginisialisasi global metrics
func InitMetrics() {
	GlobalMetrics = NewMetrics()
}
