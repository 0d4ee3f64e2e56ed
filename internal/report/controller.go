package report

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"report_handler/internal/codec"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ReportController struct {
	service ReportServiceInterface
}

func NewReportController(service ReportServiceInterface) *ReportController {
	return &ReportController{
		service: service,
	}
}

func invalidReportTypeMessage() string {
	return fmt.Sprintf("Invalid report_type. Must be one of: %s.", strings.Join(ReportTypes, ", "))
}

// SubmitReport handles batch submission and starts asynchronous generation
func (rc *ReportController) SubmitReport(c *gin.Context) {
	reportType := c.Param("report_type")
	if !IsValidReportType(reportType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidReportTypeMessage()})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data format", "details": err.Error()})
		return
	}

	task, err := rc.service.SubmitBatch(reportType, body)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data format", "details": verr.Details})
			return
		}
		logrus.WithError(err).Error("Error creating report task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report task", "details": err.Error()})
		return
	}

	statusURL := absoluteURL(c, fmt.Sprintf("/%s/%s", reportType, *task.TaskID))
	c.Header("Location", statusURL)
	c.JSON(http.StatusAccepted, gin.H{
		"task_id":    *task.TaskID,
		"status":     task.Status,
		"status_url": statusURL,
	})
}

// GetReportStatus handles polling for the state of a generation task
func (rc *ReportController) GetReportStatus(c *gin.Context) {
	reportType := c.Param("report_type")
	if !IsValidReportType(reportType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidReportTypeMessage()})
		return
	}
	taskID := c.Param("task_id")

	task, reports, err := rc.service.GetTaskStatus(reportType, taskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		logrus.WithError(err).Error("Error retrieving task status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving task status", "details": err.Error()})
		return
	}

	switch task.Status {
	case StatusPending, StatusStarted, StatusRetry:
		c.JSON(http.StatusAccepted, gin.H{
			"status":  task.Status,
			"message": fmt.Sprintf("Report generation is %s. Please check back later.", strings.ToLower(task.Status)),
		})
		return

	case StatusFailure:
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": task.Status,
			"error":  task.ErrorMessage,
		})
		return

	case StatusRevoked:
		c.JSON(http.StatusGone, gin.H{
			"status":  task.Status,
			"message": "Task was revoked",
		})
		return
	}

	if len(reports) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"status": task.Status,
			"error":  "No reports found even though task completed successfully.",
		})
		return
	}

	items := make([]gin.H, 0, len(reports))
	for _, rpt := range reports {
		items = append(items, gin.H{
			"id":           rpt.ID,
			"student_id":   rpt.StudentID,
			"namespace":    rpt.Namespace,
			"generated_at": rpt.GeneratedAt.Format(time.RFC3339),
			"url":          absoluteURL(c, fmt.Sprintf("/reports/%s/%s", taskID, rpt.ID)),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       task.Status,
		"task_id":      taskID,
		"report_type":  task.ReportType,
		"created_at":   task.CreatedAt.Format(time.RFC3339),
		"updated_at":   task.UpdatedAt.Format(time.RFC3339),
		"report_count": len(reports),
		"reports":      items,
	})
}

// GetReportContent serves a stored report inline as HTML or PDF
func (rc *ReportController) GetReportContent(c *gin.Context) {
	taskID := c.Param("task_id")

	// Malformed ids never match a stored report
	reportID, err := uuid.Parse(c.Param("report_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	rpt, raw, err := rc.service.GetReportContent(taskID, reportID)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		var derr *codec.DecompressionError
		if errors.As(err, &derr) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": fmt.Sprintf("Failed to decompress report content: %v", derr.Cause),
			})
			return
		}
		logrus.WithError(err).Error("Error retrieving report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving report", "details": err.Error()})
		return
	}

	filename := fmt.Sprintf("Report-%s.%s", rpt.StudentID, rpt.ContentType)

	switch rpt.ContentType {
	case TypeHTML:
		if !utf8.Valid(raw) {
			logrus.Errorf("Invalid UTF-8 in HTML report %s", reportID)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to decode HTML content: invalid UTF-8 sequence",
			})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"%s\"", filename))
		c.Data(http.StatusOK, "text/html", raw)

	case TypePDF:
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"%s\"", filename))
		c.Data(http.StatusOK, "application/pdf", raw)

	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Unsupported report type: %s", rpt.ContentType),
		})
	}
}

// ListTasks handles the admin listing of recent tasks
func (rc *ReportController) ListTasks(c *gin.Context) {
	tasks, err := rc.service.ListTasks(c.Query("status"), c.Query("report_type"))
	if err != nil {
		logrus.WithError(err).Error("Error listing report tasks")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tasks"})
		return
	}

	items := make([]gin.H, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, gin.H{
			"task_id":       t.TaskID,
			"status":        t.Status,
			"report_type":   t.ReportType,
			"error_message": t.ErrorMessage,
			"created_at":    t.CreatedAt.Format(time.RFC3339),
			"updated_at":    t.UpdatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": items,
		"count": len(items),
	})
}

// RevokeTask handles external cancellation of an unfinished task
func (rc *ReportController) RevokeTask(c *gin.Context) {
	taskID := c.Param("task_id")

	task, err := rc.service.RevokeTask(taskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		if errors.Is(err, ErrTaskNotRevocable) {
			c.JSON(http.StatusConflict, gin.H{
				"error":  fmt.Sprintf("Task in status %s cannot be revoked", task.Status),
				"status": task.Status,
			})
			return
		}
		logrus.WithError(err).Error("Error revoking report task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task_id": taskID,
		"status":  task.Status,
		"message": "Task was revoked",
	})
}

// DeleteTask handles removal of a task and its generated reports
func (rc *ReportController) DeleteTask(c *gin.Context) {
	taskID := c.Param("task_id")

	if err := rc.service.DeleteTask(taskID); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		logrus.WithError(err).Error("Error deleting report task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task_id": taskID,
		"message": "Task deleted",
	})
}

func absoluteURL(c *gin.Context, path string) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, c.Request.Host, path)
}
