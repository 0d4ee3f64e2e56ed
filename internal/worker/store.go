package worker

import (
	"database/sql"

	"report_handler/internal/report"
	"report_handler/internal/utils"
)

// TaskStore is the slice of persistence the workers need. Each method runs
// in its own transaction so a status change commits before generation work
// continues.
type TaskStore interface {
	GetTaskByPK(pk int) (*report.ReportTask, error)
	MarkStarted(pk int) error
	MarkRetry(pk int) error
	MarkSuccess(pk int, errorMessage string) error
	MarkFailed(pk int, errorMessage string) error
	SaveReports(taskPK int, reports []*report.GeneratedReport) (int, int, error)
}

type dbTaskStore struct {
	db   *sql.DB
	repo report.ReportRepositoryInterface
}

func NewTaskStore(db *sql.DB, repo report.ReportRepositoryInterface) TaskStore {
	return &dbTaskStore{db: db, repo: repo}
}

func (s *dbTaskStore) GetTaskByPK(pk int) (*report.ReportTask, error) {
	return s.repo.GetTaskByPK(s.db, pk)
}

func (s *dbTaskStore) MarkStarted(pk int) error {
	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.MarkStarted(tx, pk)
	})
}

func (s *dbTaskStore) MarkRetry(pk int) error {
	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.MarkRetry(tx, pk)
	})
}

func (s *dbTaskStore) MarkSuccess(pk int, errorMessage string) error {
	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.MarkSuccess(tx, pk, errorMessage)
	})
}

func (s *dbTaskStore) MarkFailed(pk int, errorMessage string) error {
	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.MarkFailed(tx, pk, errorMessage)
	})
}

func (s *dbTaskStore) SaveReports(taskPK int, reports []*report.GeneratedReport) (int, int, error) {
	var stored, failed int
	err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		var txErr error
		stored, failed, txErr = s.repo.SaveReports(tx, taskPK, reports)
		return txErr
	})
	return stored, failed, err
}
