package db

import (
	"database/sql"
	"fmt"
)

// Migrate creates the report schema. Safe to run on every startup.
func Migrate(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS report_tasks (
	id SERIAL PRIMARY KEY,
	task_id VARCHAR(255) UNIQUE,
	status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
	report_type VARCHAR(10) NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
	`)
	if err != nil {
		return fmt.Errorf("failed to create report_tasks table: %w", err)
	}

	_, err = database.Exec(`
		CREATE TABLE IF NOT EXISTS generated_reports (
	id UUID PRIMARY KEY,
	report_task_id INTEGER NOT NULL REFERENCES report_tasks(id) ON DELETE CASCADE,
	student_id VARCHAR(255) NOT NULL,
	namespace VARCHAR(255) NOT NULL,
	content BYTEA,
	content_type VARCHAR(10) NOT NULL,
	generated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	file_size INTEGER
	)
	`)
	if err != nil {
		return fmt.Errorf("failed to create generated_reports table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_report_tasks_status ON report_tasks (status)`,
		`CREATE INDEX IF NOT EXISTS idx_report_tasks_report_type ON report_tasks (report_type)`,
		`CREATE INDEX IF NOT EXISTS idx_report_tasks_created_at ON report_tasks (created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_report_tasks_status_type ON report_tasks (status, report_type)`,
		`CREATE INDEX IF NOT EXISTS idx_generated_reports_student_id ON generated_reports (student_id)`,
		`CREATE INDEX IF NOT EXISTS idx_generated_reports_namespace ON generated_reports (namespace)`,
		`CREATE INDEX IF NOT EXISTS idx_generated_reports_task_type ON generated_reports (report_task_id, content_type)`,
		`CREATE INDEX IF NOT EXISTS idx_generated_reports_student ON generated_reports (student_id, namespace)`,
		`CREATE INDEX IF NOT EXISTS idx_generated_reports_generated_at ON generated_reports (generated_at)`,
	}
	for _, stmt := range indexes {
		if _, err := database.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
