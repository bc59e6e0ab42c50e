package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"surveyscribe/domain/core"
	"surveyscribe/domain/survey"
	"surveyscribe/ports"
)

const reportsSchema = `
CREATE TABLE IF NOT EXISTS reports (
	id BIGSERIAL PRIMARY KEY,
	run_id TEXT NOT NULL,
	question_key TEXT NOT NULL,
	question_text TEXT NOT NULL DEFAULT '',
	test_family TEXT NOT NULL DEFAULT '',
	report TEXT NOT NULL DEFAULT '',
	force_accepted BOOLEAN NOT NULL DEFAULT FALSE,
	error_note TEXT NOT NULL DEFAULT '',
	significance JSONB NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_reports_run_id ON reports (run_id);
`

// ReportRepositoryImpl implements ReportRepository for PostgreSQL
type ReportRepositoryImpl struct {
	db *sqlx.DB
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &ReportRepositoryImpl{db: db}
}

// Connect opens a database handle and ensures the reports schema exists.
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := db.Exec(reportsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure reports schema: %w", err)
	}
	return db, nil
}

type reportRow struct {
	RunID         string    `db:"run_id"`
	QuestionKey   string    `db:"question_key"`
	QuestionText  string    `db:"question_text"`
	TestFamily    string    `db:"test_family"`
	Report        string    `db:"report"`
	ForceAccepted bool      `db:"force_accepted"`
	ErrorNote     string    `db:"error_note"`
	Significance  []byte    `db:"significance"`
	CreatedAt     time.Time `db:"created_at"`
}

// SaveReport persists one finished or failed question analysis.
func (r *ReportRepositoryImpl) SaveReport(ctx context.Context, rec ports.ReportRecord) error {
	significance, err := json.Marshal(rec.Significance)
	if err != nil {
		return fmt.Errorf("marshal significance rows: %w", err)
	}
	if rec.Significance == nil {
		significance = []byte("[]")
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO reports (
			run_id, question_key, question_text, test_family,
			report, force_accepted, error_note, significance, created_at
		) VALUES (
			:run_id, :question_key, :question_text, :test_family,
			:report, :force_accepted, :error_note, :significance, :created_at
		)
	`, reportRow{
		RunID:         rec.RunID.String(),
		QuestionKey:   rec.QuestionKey.String(),
		QuestionText:  rec.QuestionText,
		TestFamily:    string(rec.TestFamily),
		Report:        rec.Report,
		ForceAccepted: rec.ForceAccepted,
		ErrorNote:     rec.ErrorNote,
		Significance:  significance,
		CreatedAt:     time.Time(rec.CreatedAt),
	})
	return err
}

// ListByRun returns the run's records in sheet processing order.
func (r *ReportRepositoryImpl) ListByRun(ctx context.Context, runID core.RunID) ([]ports.ReportRecord, error) {
	var rows []reportRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT run_id, question_key, question_text, test_family,
		       report, force_accepted, error_note, significance, created_at
		FROM reports
		WHERE run_id = $1
		ORDER BY id ASC
	`, runID.String())
	if err != nil {
		return nil, err
	}

	records := make([]ports.ReportRecord, 0, len(rows))
	for _, row := range rows {
		var significance []survey.SignificanceRow
		if len(row.Significance) > 0 {
			if err := json.Unmarshal(row.Significance, &significance); err != nil {
				return nil, fmt.Errorf("unmarshal significance rows: %w", err)
			}
		}
		records = append(records, ports.ReportRecord{
			RunID:         core.RunID(row.RunID),
			QuestionKey:   core.QuestionKey(row.QuestionKey),
			QuestionText:  row.QuestionText,
			TestFamily:    survey.TestFamily(row.TestFamily),
			Report:        row.Report,
			ForceAccepted: row.ForceAccepted,
			ErrorNote:     row.ErrorNote,
			Significance:  significance,
			CreatedAt:     core.Timestamp(row.CreatedAt),
		})
	}
	return records, nil
}
