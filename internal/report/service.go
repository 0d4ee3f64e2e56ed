package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"report_handler/internal/cache"
	"report_handler/internal/codec"
	"report_handler/internal/observability"
	"report_handler/internal/queue"
	"report_handler/internal/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type ReportServiceInterface interface {
	SubmitBatch(reportType string, body []byte) (*ReportTask, error)
	GetTaskStatus(reportType, taskID string) (*ReportTask, []*GeneratedReport, error)
	GetReportContent(taskID string, reportID uuid.UUID) (*GeneratedReport, []byte, error)
	ListTasks(status, reportType string) ([]*ReportTask, error)
	RevokeTask(taskID string) (*ReportTask, error)
	DeleteTask(taskID string) error
}

type ReportService struct {
	repo    ReportRepositoryInterface
	conn    *amqp.Connection
	DB      *sql.DB
	codec   codec.Codec
	revoked *cache.RevocationList
}

func NewReportService(repo ReportRepositoryInterface, db *sql.DB, conn *amqp.Connection, redisClient *redis.Client) ReportServiceInterface {
	return &ReportService{
		repo:    repo,
		DB:      db,
		conn:    conn,
		codec:   codec.NewZlib(),
		revoked: cache.NewRevocationList(redisClient),
	}
}

// SubmitBatch validates a batch, records a PENDING task and hands the job to
// the queue. The queue-assigned message id becomes the client-facing task id
// and is written back onto the task row.
func (s *ReportService) SubmitBatch(reportType string, body []byte) (*ReportTask, error) {
	if err := ValidateBatch(body); err != nil {
		return nil, err
	}

	task := &ReportTask{
		Status:     StatusPending,
		ReportType: reportType,
	}

	if err := utils.WithTransaction(s.DB, func(tx *sql.Tx) error {
		pk, err := s.repo.CreateTask(tx, reportType)
		if err != nil {
			return err
		}
		task.PK = pk
		return nil
	}); err != nil {
		return nil, err
	}

	taskID, err := s.publishJob(task.PK, reportType, body)
	if err != nil {
		// The PENDING row stays behind; the client gets the failure
		return nil, err
	}

	if err := utils.WithTransaction(s.DB, func(tx *sql.Tx) error {
		return s.repo.SetTaskID(tx, task.PK, taskID)
	}); err != nil {
		return nil, err
	}
	task.TaskID = &taskID

	observability.GlobalMetrics.TasksSubmittedTotal.WithLabelValues(reportType).Inc()
	logrus.Infof("Report task %s submitted (%s)", taskID, reportType)
	return task, nil
}

func (s *ReportService) publishJob(taskPK int, reportType string, students []byte) (string, error) {
	ch, err := queue.CreateChannel(s.conn)
	if err != nil {
		return "", err
	}
	defer ch.Close()

	job := &GenerationJob{
		TaskPK:     taskPK,
		ReportType: reportType,
		Students:   students,
	}
	body, err := json.Marshal(job)
	if err != nil {
		return "", err
	}

	taskID := uuid.NewString()
	if err := ch.Publish(
		"",
		queue.ReportTasksQueue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    taskID,
			Body:         body,
		},
	); err != nil {
		return "", err
	}

	observability.GlobalMetrics.QueueMessagesPublished.WithLabelValues(queue.ReportTasksQueue).Inc()
	return taskID, nil
}

// GetTaskStatus loads the task addressed by task id and report type. The
// generated reports are attached only once the task reached SUCCESS; status
// reads always hit the database so external transitions are never shadowed.
func (s *ReportService) GetTaskStatus(reportType, taskID string) (*ReportTask, []*GeneratedReport, error) {
	task, err := s.repo.GetTaskByTaskID(s.DB, taskID, reportType)
	if err != nil {
		return nil, nil, err
	}

	if task.Status != StatusSuccess {
		return task, nil, nil
	}

	reports, err := s.repo.GetReportsByTask(s.DB, task.PK, reportType)
	if err != nil {
		return nil, nil, err
	}

	return task, reports, nil
}

// GetReportContent loads one stored report and restores its content.
func (s *ReportService) GetReportContent(taskID string, reportID uuid.UUID) (*GeneratedReport, []byte, error) {
	rpt, err := s.repo.GetReportByID(s.DB, taskID, reportID)
	if err != nil {
		return nil, nil, err
	}

	raw, err := s.codec.Decompress(rpt.Content)
	if err != nil {
		logrus.WithError(err).Errorf("Decompression failed for report %s", reportID)
		return rpt, nil, err
	}

	return rpt, raw, nil
}

func (s *ReportService) ListTasks(status, reportType string) ([]*ReportTask, error) {
	return s.repo.ListTasks(s.DB, status, reportType)
}

// RevokeTask cancels a task that has not finished. The REVOKED row is the
// authority; the Redis mark lets a worker that already loaded the task bail
// out early.
func (s *ReportService) RevokeTask(taskID string) (*ReportTask, error) {
	task, err := s.repo.FindTaskByTaskID(s.DB, taskID)
	if err != nil {
		return nil, err
	}

	switch task.Status {
	case StatusPending, StatusStarted, StatusRetry:
	default:
		return task, ErrTaskNotRevocable
	}

	if err := utils.WithTransaction(s.DB, func(tx *sql.Tx) error {
		return s.repo.RevokeTask(tx, task.PK)
	}); err != nil {
		if err == ErrTaskNotRevocable {
			return task, err
		}
		return nil, err
	}
	task.Status = StatusRevoked

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.revoked.Mark(ctx, taskID); err != nil {
		logrus.WithError(err).Warn("Failed to record revocation mark")
	}

	logrus.Infof("Report task %s revoked", taskID)
	return task, nil
}

func (s *ReportService) DeleteTask(taskID string) error {
	// Generated reports go with the task via the cascading foreign key
	return utils.WithTransaction(s.DB, func(tx *sql.Tx) error {
		return s.repo.DeleteTask(tx, taskID)
	})
}
