package report

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Task lifecycle statuses. PENDING, STARTED, SUCCESS and FAILURE form the
// normal path; RETRY marks a task waiting for redelivery and REVOKED is set
// externally and is never overwritten by the worker.
const (
	StatusPending = "PENDING"
	StatusStarted = "STARTED"
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
	StatusRetry   = "RETRY"
	StatusRevoked = "REVOKED"
)

const (
	TypeHTML = "html"
	TypePDF  = "pdf"
)

// ReportTypes lists the supported report formats in display order.
var ReportTypes = []string{TypeHTML, TypePDF}

func IsValidReportType(reportType string) bool {
	return reportType == TypeHTML || reportType == TypePDF
}

type ReportTask struct {
	PK           int
	TaskID       *string
	Status       string
	ReportType   string
	ErrorMessage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type GeneratedReport struct {
	ID          uuid.UUID
	TaskPK      int
	StudentID   string
	Namespace   string
	Content     []byte
	ContentType string
	GeneratedAt time.Time
	FileSize    int
}

type Event struct {
	Type        string `json:"type"`
	CreatedTime string `json:"created_time"`
	Unit        int    `json:"unit"`
}

type Student struct {
	Namespace string  `json:"namespace"`
	StudentID string  `json:"student_id"`
	Events    []Event `json:"events"`
}

// GenerationJob is the queue payload for one submitted batch. Students is
// kept as raw JSON so the worker can re-validate it against the batch schema
// before decoding.
type GenerationJob struct {
	TaskPK     int             `json:"task_pk"`
	ReportType string          `json:"report_type"`
	Students   json.RawMessage `json:"students"`
}
