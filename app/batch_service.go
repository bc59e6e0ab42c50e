package app

import (
	"context"
	"time"

	"surveyscribe/domain/core"
	"surveyscribe/domain/survey"
	"surveyscribe/internal"
	"surveyscribe/ports"
)

// BatchService runs the pipeline over every question in a workbook. Each
// question gets a fresh workflow state; one question's failure is recorded
// and never stops the rest of the batch.
type BatchService struct {
	pipeline *PipelineService
	mapper   *MapperService
	reports  ports.ReportRepository
	logger   *internal.Logger
}

// BatchResult summarizes one whole-workbook run.
type BatchResult struct {
	RunID     core.RunID
	States    []*survey.WorkflowState
	Failed    map[core.QuestionKey]string
	RuntimeMs int64
}

// NewBatchService creates a batch service
func NewBatchService(pipeline *PipelineService, mapper *MapperService, reports ports.ReportRepository, logger *internal.Logger) *BatchService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &BatchService{pipeline: pipeline, mapper: mapper, reports: reports, logger: logger}
}

// Run analyzes every question in sheet order. The variable mapping is
// question-independent, so it is built once up front and shared; if even
// that fails the whole batch runs degraded through per-question mapping
// attempts.
func (s *BatchService) Run(ctx context.Context, wb *Workbook, lang survey.Language, plans map[core.QuestionKey]*AnalysisPlan) (*BatchResult, error) {
	started := time.Now()
	runID := core.NewRunID()
	result := &BatchResult{
		RunID:  runID,
		Failed: make(map[core.QuestionKey]string),
	}

	var firstTable *survey.CategorizedTable
	if len(wb.TableSet.Keys) > 0 {
		if rec, err := wb.TableSet.Record(wb.TableSet.Keys[0]); err == nil {
			firstTable = rec.Table
		}
	}
	mapping, err := s.mapper.BuildMapping(ctx, firstTable, wb.Raw, wb.Demo, lang)
	if err != nil {
		s.logger.Warn("batch %s: shared mapping failed, falling back to per-question mapping: %v", runID, err)
		mapping = nil
	}

	for _, key := range wb.TableSet.Keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		state, err := s.pipeline.AnalyzeQuestion(ctx, wb, key, runID, lang, plans[key], mapping)
		if err != nil {
			s.logger.Error("batch %s: question %s failed: %v", runID, key, err)
			result.Failed[key] = err.Error()
			s.recordFailure(ctx, wb, runID, key, err)
			continue
		}
		result.States = append(result.States, state)
	}

	result.RuntimeMs = time.Since(started).Milliseconds()
	s.logger.Info("batch %s finished: %d reports, %d failures, %dms",
		runID, len(result.States), len(result.Failed), result.RuntimeMs)
	return result, nil
}

func (s *BatchService) recordFailure(ctx context.Context, wb *Workbook, runID core.RunID, key core.QuestionKey, cause error) {
	if s.reports == nil {
		return
	}
	questionText := ""
	if rec, err := wb.TableSet.Record(key); err == nil {
		questionText = rec.QuestionText
	}
	rec := ports.ReportRecord{
		RunID:        runID,
		QuestionKey:  key,
		QuestionText: questionText,
		ErrorNote:    cause.Error(),
		CreatedAt:    core.Now(),
	}
	if err := s.reports.SaveReport(ctx, rec); err != nil {
		s.logger.Error("batch %s: failed to record failure for %s: %v", runID, key, err)
	}
}
