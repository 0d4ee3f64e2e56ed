package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"report_handler/internal/codec"
	"report_handler/internal/observability"
	"report_handler/internal/render"
	"report_handler/internal/report"
	"report_handler/internal/timeline"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RevocationChecker reports whether a task was cancelled out of band.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, taskID string) bool
}

// Orchestrator runs one report generation job end to end: status
// transitions, per-student rendering, compression and persistence.
type Orchestrator struct {
	store   TaskStore
	codec   codec.Codec
	revoked RevocationChecker
}

func NewOrchestrator(store TaskStore, codec codec.Codec, revoked RevocationChecker) *Orchestrator {
	return &Orchestrator{store: store, codec: codec, revoked: revoked}
}

// Process handles a single job. A nil return means the message can be
// acked, whether the task succeeded or failed terminally. A non-nil
// return means something unexpected happened and the job should be
// retried.
func (o *Orchestrator) Process(job *report.GenerationJob) error {
	if !report.IsValidReportType(job.ReportType) {
		return o.failTask(job, fmt.Sprintf("Invalid report_type: %s", job.ReportType))
	}

	task, err := o.store.GetTaskByPK(job.TaskPK)
	if err != nil {
		if errors.Is(err, report.ErrTaskNotFound) {
			logrus.Errorf("ReportTask with ID %d not found", job.TaskPK)
			return nil
		}
		return err
	}

	if task.Status == report.StatusRevoked || o.taskRevoked(task) {
		logrus.Infof("Task %d was revoked, skipping generation", job.TaskPK)
		return nil
	}

	if err := o.store.MarkStarted(job.TaskPK); err != nil {
		if errors.Is(err, report.ErrTaskRevoked) {
			logrus.Infof("Task %d was revoked, skipping generation", job.TaskPK)
			return nil
		}
		return err
	}

	// The payload crossed the queue, validate it again before trusting it
	if err := report.ValidateBatch(job.Students); err != nil {
		return o.failTask(job, fmt.Sprintf("Validation error: %v", err))
	}

	var students []report.Student
	if err := json.Unmarshal(job.Students, &students); err != nil {
		return o.failTask(job, fmt.Sprintf("Validation error: %v", err))
	}

	var generated []*report.GeneratedReport
	failed := 0
	for _, student := range students {
		rpt, err := o.generateReport(student, job.ReportType)
		if err != nil {
			logrus.WithError(err).Errorf("Failed to generate %s report for student %s", job.ReportType, student.StudentID)
			failed++
			continue
		}
		generated = append(generated, rpt)
	}

	// Revocation may have arrived while rendering, drop the batch if so
	current, err := o.store.GetTaskByPK(job.TaskPK)
	if err != nil {
		if errors.Is(err, report.ErrTaskNotFound) {
			logrus.Infof("Task %d no longer exists, dropping %d reports", job.TaskPK, len(generated))
			return nil
		}
		return err
	}
	if current.Status == report.StatusRevoked || o.taskRevoked(current) {
		logrus.Infof("Task %d was revoked during generation, dropping %d reports", job.TaskPK, len(generated))
		return nil
	}

	successful := 0
	if len(generated) > 0 {
		stored, storeFailed, err := o.store.SaveReports(job.TaskPK, generated)
		if err != nil {
			return err
		}
		successful = stored
		failed += storeFailed
	}

	observability.GlobalMetrics.ReportsGeneratedTotal.WithLabelValues(job.ReportType, "success").Add(float64(successful))
	observability.GlobalMetrics.ReportsGeneratedTotal.WithLabelValues(job.ReportType, "failed").Add(float64(failed))

	var status, message string
	switch {
	case successful > 0 && failed == 0:
		status = report.StatusSuccess
		logrus.Infof("Task %d finished: all %d reports successful", job.TaskPK, successful)
	case successful > 0:
		status = report.StatusSuccess
		message = fmt.Sprintf("%d reports succeeded, %d failed.", successful, failed)
		logrus.Warnf("Task %d finished partially: %s", job.TaskPK, message)
	default:
		status = report.StatusFailure
		message = "All report generations failed."
		logrus.Errorf("Task %d failed: no reports generated", job.TaskPK)
	}

	var markErr error
	if status == report.StatusSuccess {
		markErr = o.store.MarkSuccess(job.TaskPK, message)
	} else {
		markErr = o.store.MarkFailed(job.TaskPK, message)
	}
	if markErr != nil {
		if errors.Is(markErr, report.ErrTaskRevoked) {
			logrus.Infof("Task %d was revoked before its result was written", job.TaskPK)
			return nil
		}
		return markErr
	}

	observability.GlobalMetrics.TasksProcessedTotal.WithLabelValues(job.ReportType, strings.ToLower(status)).Inc()
	return nil
}

// MarkRetry records that the job is going back on the queue.
func (o *Orchestrator) MarkRetry(job *report.GenerationJob) error {
	return o.store.MarkRetry(job.TaskPK)
}

// Abandon fails a job for good after repeated unexpected errors.
func (o *Orchestrator) Abandon(job *report.GenerationJob) error {
	return o.store.MarkFailed(job.TaskPK, "Max retries exceeded on unexpected error.")
}

func (o *Orchestrator) generateReport(student report.Student, reportType string) (*report.GeneratedReport, error) {
	tl, err := timeline.Normalize(student.Events)
	if err != nil {
		return nil, err
	}

	var artifact render.Artifact
	switch reportType {
	case report.TypeHTML:
		artifact = render.HTML(student, tl.Order)
	case report.TypePDF:
		artifact = render.PDF(student, tl.Order)
	}
	if artifact.Fallback {
		logrus.WithError(artifact.Cause).Warnf("Stored fallback %s report for student %s", reportType, student.StudentID)
	}

	compressed, err := o.codec.Compress(artifact.Content)
	if err != nil {
		return nil, err
	}

	return &report.GeneratedReport{
		ID:          uuid.New(),
		StudentID:   student.StudentID,
		Namespace:   student.Namespace,
		Content:     compressed,
		ContentType: reportType,
	}, nil
}

// failTask marks the task FAILURE with a terminal message. The job is
// still acked, only storage errors bubble up for a retry.
func (o *Orchestrator) failTask(job *report.GenerationJob, message string) error {
	logrus.Error(message)
	if err := o.store.MarkFailed(job.TaskPK, message); err != nil {
		if errors.Is(err, report.ErrTaskRevoked) {
			return nil
		}
		return err
	}
	observability.GlobalMetrics.TasksProcessedTotal.WithLabelValues(job.ReportType, "failure").Inc()
	return nil
}

func (o *Orchestrator) taskRevoked(task *report.ReportTask) bool {
	if task.TaskID == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return o.revoked.IsRevoked(ctx, *task.TaskID)
}
