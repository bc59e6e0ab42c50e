package memory

import (
	"context"
	"sync"

	"surveyscribe/domain/core"
	"surveyscribe/ports"
)

// ReportRepository is the in-memory fallback used when no database is
// configured. Records live for the process lifetime only.
type ReportRepository struct {
	mu      sync.RWMutex
	records []ports.ReportRecord
}

// NewReportRepository creates an empty in-memory report repository
func NewReportRepository() *ReportRepository {
	return &ReportRepository{}
}

// SaveReport appends one record.
func (r *ReportRepository) SaveReport(ctx context.Context, rec ports.ReportRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

// ListByRun returns the run's records in insertion order.
func (r *ReportRepository) ListByRun(ctx context.Context, runID core.RunID) ([]ports.ReportRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []ports.ReportRecord
	for _, rec := range r.records {
		if rec.RunID == runID {
			out = append(out, rec)
		}
	}
	return out, nil
}
