package ports

import (
	"context"

	"surveyscribe/domain/core"
	"surveyscribe/domain/survey"
)

// ReportRecord is one question's finished (or failed) analysis within a run.
// Batch failures are stored with ErrorNote set and Report empty, so partial
// batch results are never silently dropped.
type ReportRecord struct {
	RunID         core.RunID                `db:"run_id"`
	QuestionKey   core.QuestionKey          `db:"question_key"`
	QuestionText  string                    `db:"question_text"`
	TestFamily    survey.TestFamily         `db:"test_family"`
	Report        string                    `db:"report"`
	ForceAccepted bool                      `db:"force_accepted"`
	ErrorNote     string                    `db:"error_note"`
	Significance  []survey.SignificanceRow  `db:"-"`
	CreatedAt     core.Timestamp            `db:"created_at"`
}

// Failed reports whether the record is a batch-item failure note.
func (r ReportRecord) Failed() bool { return r.ErrorNote != "" }

// ReportRepository persists run results. Persistence is optional: when no
// database is configured the orchestrator runs with an in-memory repository.
type ReportRepository interface {
	SaveReport(ctx context.Context, rec ReportRecord) error
	ListByRun(ctx context.Context, runID core.RunID) ([]ReportRecord, error)
}
