package app

import (
	"context"
	"fmt"
	"time"

	"surveyscribe/adapters/excel"
	"surveyscribe/adapters/stats"
	"surveyscribe/domain/core"
	"surveyscribe/domain/survey"
	"surveyscribe/internal"
	apperrors "surveyscribe/internal/errors"
	"surveyscribe/ports"
)

// PipelineService orchestrates one question's journey from parsed workbook
// to finished report: hypothesis suggestion, variable mapping, test-family
// selection, significance testing, narrative composition, persistence.
type PipelineService struct {
	hypothesis *HypothesisService
	mapper     *MapperService
	narrative  *NarrativeService
	selector   *stats.Selector
	tester     *stats.Tester
	reports    ports.ReportRepository
	logger     *internal.Logger
}

// AnalysisPlan is a per-question user override consulted before the
// rule-based selector.
type AnalysisPlan struct {
	UseStat  bool              // false skips significance testing entirely
	TestType survey.TestFamily // non-empty forces the family
}

// Workbook bundles everything loaded from one uploaded file.
type Workbook struct {
	TableSet *survey.SurveyTableSet
	Raw      *survey.RawTable
	Demo     survey.DemographicMap
}

// NewPipelineService creates a pipeline service
func NewPipelineService(
	hypothesis *HypothesisService,
	mapper *MapperService,
	narrative *NarrativeService,
	selector *stats.Selector,
	tester *stats.Tester,
	reports ports.ReportRepository,
	logger *internal.Logger,
) *PipelineService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &PipelineService{
		hypothesis: hypothesis,
		mapper:     mapper,
		narrative:  narrative,
		selector:   selector,
		tester:     tester,
		reports:    reports,
		logger:     logger,
	}
}

// LoadWorkbook reads all three sheets of an uploaded file. A missing or
// malformed demographic sheet is fatal: without it no demographic grouping
// is possible for any question.
func LoadWorkbook(path string) (*Workbook, error) {
	tableSet, err := excel.NewTableParser(path).Parse()
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeParseError, fmt.Errorf("parse statistics sheet: %w", err))
	}

	reader := excel.NewRawDataReader(path)
	demo, err := reader.ReadDemographicMap()
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeParseError, fmt.Errorf("read demographic map: %w", err))
	}
	raw, err := reader.ReadDataSheet()
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeParseError, fmt.Errorf("read raw data sheet: %w", err))
	}

	return &Workbook{TableSet: tableSet, Raw: raw, Demo: demo}, nil
}

// AnalyzeQuestion runs the full pipeline for one question. A prebuilt
// mapping may be passed in (batch mode builds it once); nil builds one. The
// returned state carries every intermediate artifact for inspection.
func (s *PipelineService) AnalyzeQuestion(
	ctx context.Context,
	wb *Workbook,
	key core.QuestionKey,
	runID core.RunID,
	lang survey.Language,
	plan *AnalysisPlan,
	mapping *MappingResult,
) (*survey.WorkflowState, error) {
	started := time.Now()

	record, err := wb.TableSet.Record(key)
	if err != nil {
		return nil, err
	}

	state := &survey.WorkflowState{
		RunID:            runID,
		Language:         lang,
		TableSet:         wb.TableSet,
		SelectedKey:      key,
		SelectedQuestion: record.QuestionText,
		SelectedTable:    record.Table,
		LinearizedTable:  record.Table.Linearize(),
		RawData:          wb.Raw,
		DemoMap:          wb.Demo,
	}

	// Hypotheses are advisory; a failed suggestion never blocks the run.
	hypotheses, err := s.hypothesis.Suggest(ctx, state.SelectedQuestion, state.LinearizedTable, lang)
	if err != nil {
		s.logger.Warn("question %s: hypothesis suggestion skipped: %v", key, err)
	} else {
		state.Hypotheses = hypotheses
	}

	state.Anchor = stats.AnchorColumns(state.SelectedTable)

	if err := s.runSignificance(ctx, wb, state, plan, mapping); err != nil {
		return nil, err
	}

	if err := s.narrative.Compose(ctx, state); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeGenerationError, fmt.Errorf("compose narrative: %w", err))
	}

	if err := s.persist(ctx, state, ""); err != nil {
		return nil, err
	}

	s.logger.Info("question %s analyzed in %dms (family=%s, rejects=%d, forced=%t)",
		key, time.Since(started).Milliseconds(), state.TestFamily, state.RejectCount, state.ForceAccepted)
	return state, nil
}

// runSignificance resolves the test family and fills the significance fields
// of state. The order of authority is: user plan, rule set, fallback
// classifier.
func (s *PipelineService) runSignificance(ctx context.Context, wb *Workbook, state *survey.WorkflowState, plan *AnalysisPlan, mapping *MappingResult) error {
	if plan != nil && !plan.UseStat {
		state.TestFamily = survey.TestFamilyUnknown
		if state.Language == survey.LanguageEnglish {
			state.SignificanceSummary = "Significance testing was skipped for this question by request."
		} else {
			state.SignificanceSummary = "이 질문은 요청에 따라 통계 검정을 수행하지 않았습니다."
		}
		return nil
	}

	if plan != nil && plan.TestType != "" {
		state.TestFamily = plan.TestType
	} else {
		state.TestFamily = s.selector.Select(ctx, state.SelectedTable, state.SelectedQuestion)
	}

	if state.TestFamily == survey.TestFamilyManual {
		rows, err := stats.ManualAnalysis(state.SelectedTable)
		if err != nil {
			return apperrors.WithCode(apperrors.CodeAnalysisError, fmt.Errorf("manual analysis: %w", err))
		}
		state.ManualRows = rows
		state.SignificanceSummary = stats.SummarizeManual(rows, state.Language)
		return nil
	}

	// Both test families group raw responses by mapped demographic columns.
	if mapping == nil {
		built, err := s.mapper.BuildMapping(ctx, state.SelectedTable, wb.Raw, wb.Demo, state.Language)
		if err != nil {
			return apperrors.WithCode(apperrors.CodeMappingError, fmt.Errorf("variable mapping: %w", err))
		}
		mapping = built
	}
	state.MappingSpec = &mapping.Spec
	state.MappingReport = &mapping.Report
	state.MappingCritique = &mapping.Critique
	state.MappingDegraded = mapping.Degraded

	state.Significance = s.tester.Run(state.TestFamily, wb.Raw, state.SelectedKey, wb.Demo)
	state.SignificanceSummary = stats.SummarizeSignificance(state.Significance, state.Language)
	return nil
}

func (s *PipelineService) persist(ctx context.Context, state *survey.WorkflowState, errorNote string) error {
	if s.reports == nil {
		return nil
	}
	rec := ports.ReportRecord{
		RunID:         state.RunID,
		QuestionKey:   state.SelectedKey,
		QuestionText:  state.SelectedQuestion,
		TestFamily:    state.TestFamily,
		Report:        state.FinalReport,
		ForceAccepted: state.ForceAccepted,
		ErrorNote:     errorNote,
		Significance:  state.Significance,
		CreatedAt:     core.Now(),
	}
	if err := s.reports.SaveReport(ctx, rec); err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, fmt.Errorf("save report: %w", err))
	}
	return nil
}
