package report

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrTaskNotFound     = errors.New("report task not found")
	ErrReportNotFound   = errors.New("report not found")
	ErrTaskRevoked      = errors.New("task was revoked")
	ErrTaskNotRevocable = errors.New("task is not in a revocable state")
)

type ReportRepository struct{}

type ReportRepositoryInterface interface {
	CreateTask(tx *sql.Tx, reportType string) (int, error)
	SetTaskID(tx *sql.Tx, pk int, taskID string) error
	GetTaskByPK(db *sql.DB, pk int) (*ReportTask, error)
	GetTaskByTaskID(db *sql.DB, taskID, reportType string) (*ReportTask, error)
	FindTaskByTaskID(db *sql.DB, taskID string) (*ReportTask, error)
	ListTasks(db *sql.DB, status, reportType string) ([]*ReportTask, error)
	MarkStarted(tx *sql.Tx, pk int) error
	MarkRetry(tx *sql.Tx, pk int) error
	MarkSuccess(tx *sql.Tx, pk int, errorMessage string) error
	MarkFailed(tx *sql.Tx, pk int, errorMessage string) error
	RevokeTask(tx *sql.Tx, pk int) error
	DeleteTask(tx *sql.Tx, taskID string) error
	SaveReports(tx *sql.Tx, taskPK int, reports []*GeneratedReport) (int, int, error)
	GetReportsByTask(db *sql.DB, taskPK int, contentType string) ([]*GeneratedReport, error)
	GetReportByID(db *sql.DB, taskID string, reportID uuid.UUID) (*GeneratedReport, error)
}

func NewReportRepository() ReportRepositoryInterface {
	return &ReportRepository{}
}

func (r *ReportRepository) CreateTask(
	tx *sql.Tx,
	reportType string,
) (int, error) {
	query := `
		INSERT INTO report_tasks (
			status, report_type, created_at, updated_at
		)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id
	`

	var pk int
	err := tx.QueryRow(
		query,
		StatusPending,
		reportType,
	).Scan(&pk)

	if err != nil {
		return 0, err
	}

	return pk, nil
}

func (r *ReportRepository) SetTaskID(
	tx *sql.Tx,
	pk int,
	taskID string,
) error {
	query := `
		UPDATE report_tasks
		SET task_id = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := tx.Exec(query, taskID, pk)
	return err
}

func (r *ReportRepository) GetTaskByPK(
	db *sql.DB,
	pk int,
) (*ReportTask, error) {
	query := `
		SELECT
			id, task_id, status, report_type,
			error_message, created_at, updated_at
		FROM report_tasks
		WHERE id = $1
	`

	return scanTask(db.QueryRow(query, pk))
}

func (r *ReportRepository) GetTaskByTaskID(
	db *sql.DB,
	taskID string,
	reportType string,
) (*ReportTask, error) {
	query := `
		SELECT
			id, task_id, status, report_type,
			error_message, created_at, updated_at
		FROM report_tasks
		WHERE task_id = $1 AND report_type = $2
	`

	return scanTask(db.QueryRow(query, taskID, reportType))
}

func (r *ReportRepository) FindTaskByTaskID(
	db *sql.DB,
	taskID string,
) (*ReportTask, error) {
	query := `
		SELECT
			id, task_id, status, report_type,
			error_message, created_at, updated_at
		FROM report_tasks
		WHERE task_id = $1
	`

	return scanTask(db.QueryRow(query, taskID))
}

func scanTask(row *sql.Row) (*ReportTask, error) {
	var t ReportTask
	err := row.Scan(
		&t.PK,
		&t.TaskID,
		&t.Status,
		&t.ReportType,
		&t.ErrorMessage,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	return &t, nil
}

func (r *ReportRepository) ListTasks(
	db *sql.DB,
	status string,
	reportType string,
) ([]*ReportTask, error) {
	query := `
		SELECT
			id, task_id, status, report_type,
			error_message, created_at, updated_at
		FROM report_tasks
	`

	var conds []string
	var args []interface{}
	if status != "" {
		args = append(args, status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if reportType != "" {
		args = append(args, reportType)
		conds = append(conds, fmt.Sprintf("report_type = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT 100"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tasks []*ReportTask

	for rows.Next() {
		var t ReportTask
		err := rows.Scan(
			&t.PK,
			&t.TaskID,
			&t.Status,
			&t.ReportType,
			&t.ErrorMessage,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			logrus.Error("Error scanning report task row: ", err)
			continue
		}
		tasks = append(tasks, &t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// MarkStarted moves a task to STARTED. Updates are guarded so an externally
// revoked task keeps its REVOKED status; affected row count zero means the
// guard fired.
func (r *ReportRepository) MarkStarted(
	tx *sql.Tx,
	pk int,
) error {
	logrus.Info("Marking report task as STARTED: ", pk)
	query := `
		UPDATE report_tasks
		SET status = 'STARTED', updated_at = NOW()
		WHERE id = $1 AND status <> 'REVOKED'
	`
	return execGuarded(tx, query, pk)
}

func (r *ReportRepository) MarkRetry(
	tx *sql.Tx,
	pk int,
) error {
	logrus.Info("Marking report task as RETRY: ", pk)
	query := `
		UPDATE report_tasks
		SET status = 'RETRY', updated_at = NOW()
		WHERE id = $1 AND status <> 'REVOKED'
	`
	return execGuarded(tx, query, pk)
}

func (r *ReportRepository) MarkSuccess(
	tx *sql.Tx,
	pk int,
	errorMessage string,
) error {
	query := `
		UPDATE report_tasks
		SET status = 'SUCCESS',
		    error_message = NULLIF($1, ''),
		    updated_at = NOW()
		WHERE id = $2 AND status <> 'REVOKED'
	`
	return execGuarded(tx, query, errorMessage, pk)
}

func (r *ReportRepository) MarkFailed(
	tx *sql.Tx,
	pk int,
	errorMessage string,
) error {
	query := `
		UPDATE report_tasks
		SET status = 'FAILURE',
		    error_message = NULLIF($1, ''),
		    updated_at = NOW()
		WHERE id = $2 AND status <> 'REVOKED'
	`
	return execGuarded(tx, query, errorMessage, pk)
}

func execGuarded(tx *sql.Tx, query string, args ...interface{}) error {
	res, err := tx.Exec(query, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTaskRevoked
	}
	return nil
}

// RevokeTask cancels a task that has not finished yet.
func (r *ReportRepository) RevokeTask(
	tx *sql.Tx,
	pk int,
) error {
	query := `
		UPDATE report_tasks
		SET status = 'REVOKED', updated_at = NOW()
		WHERE id = $1 AND status IN ('PENDING', 'STARTED', 'RETRY')
	`
	res, err := tx.Exec(query, pk)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTaskNotRevocable
	}
	return nil
}

func (r *ReportRepository) DeleteTask(
	tx *sql.Tx,
	taskID string,
) error {
	res, err := tx.Exec(`DELETE FROM report_tasks WHERE task_id = $1`, taskID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// SaveReports inserts the generated reports for one task inside the caller's
// transaction. Each insert runs under its own savepoint so a bad row is
// rolled back alone while the rest of the batch still commits together.
// Returns the stored and failed row counts.
func (r *ReportRepository) SaveReports(
	tx *sql.Tx,
	taskPK int,
	reports []*GeneratedReport,
) (int, int, error) {
	query := `
		INSERT INTO generated_reports (
			id, report_task_id, student_id, namespace,
			content, content_type, generated_at, file_size
		)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), $7)
	`

	stored, failed := 0, 0
	for i, rpt := range reports {
		sp := fmt.Sprintf("report_row_%d", i)
		if _, err := tx.Exec("SAVEPOINT " + sp); err != nil {
			return stored, failed, err
		}

		_, err := tx.Exec(
			query,
			rpt.ID,
			taskPK,
			rpt.StudentID,
			rpt.Namespace,
			rpt.Content,
			rpt.ContentType,
			len(rpt.Content),
		)
		if err != nil {
			logrus.WithError(err).Errorf("Failed to store report for student %s", rpt.StudentID)
			if _, rbErr := tx.Exec("ROLLBACK TO SAVEPOINT " + sp); rbErr != nil {
				return stored, failed, rbErr
			}
			failed++
			continue
		}

		if _, err := tx.Exec("RELEASE SAVEPOINT " + sp); err != nil {
			return stored, failed, err
		}
		stored++
	}

	return stored, failed, nil
}

func (r *ReportRepository) GetReportsByTask(
	db *sql.DB,
	taskPK int,
	contentType string,
) ([]*GeneratedReport, error) {
	// Listing skips the compressed blobs, content is served separately
	query := `
		SELECT
			id, report_task_id, student_id, namespace,
			content_type, generated_at, file_size
		FROM generated_reports
		WHERE report_task_id = $1 AND content_type = $2
		ORDER BY generated_at DESC
	`

	rows, err := db.Query(query, taskPK, contentType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var reports []*GeneratedReport

	for rows.Next() {
		var rpt GeneratedReport
		err := rows.Scan(
			&rpt.ID,
			&rpt.TaskPK,
			&rpt.StudentID,
			&rpt.Namespace,
			&rpt.ContentType,
			&rpt.GeneratedAt,
			&rpt.FileSize,
		)
		if err != nil {
			logrus.Error("Error scanning generated report row: ", err)
			continue
		}
		reports = append(reports, &rpt)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *ReportRepository) GetReportByID(
	db *sql.DB,
	taskID string,
	reportID uuid.UUID,
) (*GeneratedReport, error) {
	query := `
		SELECT
			gr.id, gr.report_task_id, gr.student_id, gr.namespace,
			gr.content, gr.content_type, gr.generated_at, gr.file_size
		FROM generated_reports gr
		JOIN report_tasks rt ON rt.id = gr.report_task_id
		WHERE rt.task_id = $1 AND gr.id = $2
	`

	row := db.QueryRow(query, taskID, reportID)

	var rpt GeneratedReport
	err := row.Scan(
		&rpt.ID,
		&rpt.TaskPK,
		&rpt.StudentID,
		&rpt.Namespace,
		&rpt.Content,
		&rpt.ContentType,
		&rpt.GeneratedAt,
		&rpt.FileSize,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	return &rpt, nil
}
