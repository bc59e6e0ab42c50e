package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"surveyscribe/adapters/excel"
	"surveyscribe/adapters/memory"
	"surveyscribe/adapters/stats"
	"surveyscribe/domain/core"
	"surveyscribe/domain/survey"
	apperrors "surveyscribe/internal/errors"
	"surveyscribe/internal/testkit"
)

// pipelineFixture wires a pipeline from scripted doubles and an in-memory
// repository. The selector runs without a fallback generator, so undecided
// questions settle on chi-square.
func pipelineFixture(narrative *testkit.ScriptedGenerator, mapper *testkit.ScriptedGenerator) (*PipelineService, *memory.ReportRepository) {
	repo := memory.NewReportRepository()
	hypGen := &testkit.ScriptedGenerator{Responses: []string{"1. 성별 차이가 있을 것이다\n2. 연령 차이가 있을 것이다\n3. 지역 차이가 있을 것이다"}}
	pipeline := NewPipelineService(
		NewHypothesisService(hypGen),
		NewMapperService(mapper, nil),
		NewNarrativeService(narrative, &testkit.ScriptedClassifier{}, DefaultRejectLimit, nil),
		stats.NewSelector(nil),
		stats.NewTester(),
		repo,
		nil,
	)
	return pipeline, repo
}

func likertWorkbook(t *testing.T) *Workbook {
	t.Helper()
	set, err := excel.ParseStatisticsRows(testkit.StatisticsRows(testkit.LikertBlock("A1")))
	if err != nil {
		t.Fatalf("fixture parse: %v", err)
	}
	return &Workbook{
		TableSet: set,
		Raw:      testkit.BalancedRawTable("A1", []string{"1", "2", "3"}, []string{"4", "5", "6"}),
		Demo:     testkit.DemoMap(),
	}
}

func genderMapping() *MappingResult {
	return &MappingResult{
		Spec: survey.MappingSpec{Rules: []survey.MappingRule{
			{Target: "성별", Source: "DEMO1", Cases: map[string]string{"1": "남자", "2": "여자"}},
		}},
		Report:   survey.MappingReport{RowCount: 6, MappedCount: map[string]int{"성별": 6}},
		Critique: survey.MappingCritique{Decision: "accept", Score: 95},
	}
}

func TestAnalyzeQuestionFTFamily(t *testing.T) {
	narrative := &testkit.ScriptedGenerator{Responses: []string{"초안", "최종 보고서"}}
	pipeline, repo := pipelineFixture(narrative, &testkit.ScriptedGenerator{})
	wb := likertWorkbook(t)
	runID := core.NewRunID()

	state, err := pipeline.AnalyzeQuestion(context.Background(), wb, "A1", runID, survey.LanguageKorean, nil, genderMapping())
	assert.NoError(t, err)
	assert.Equal(t, survey.TestFamilyFT, state.TestFamily)
	assert.Len(t, state.Significance, 1)
	assert.Equal(t, "성별", state.Significance[0].CategoryLabel)
	assert.Len(t, state.Hypotheses, 3)
	assert.NotEmpty(t, state.Anchor)
	assert.Equal(t, "최종 보고서", state.FinalReport)

	records, err := repo.ListByRun(context.Background(), runID)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, core.QuestionKey("A1"), records[0].QuestionKey)
	assert.Equal(t, survey.TestFamilyFT, records[0].TestFamily)
	assert.Empty(t, records[0].ErrorNote)
}

func TestAnalyzeQuestionNoStatPlan(t *testing.T) {
	narrative := &testkit.ScriptedGenerator{Responses: []string{"초안", "최종 보고서"}}
	pipeline, _ := pipelineFixture(narrative, &testkit.ScriptedGenerator{})
	wb := likertWorkbook(t)

	plan := &AnalysisPlan{UseStat: false}
	state, err := pipeline.AnalyzeQuestion(context.Background(), wb, "A1", core.NewRunID(), survey.LanguageKorean, plan, nil)
	assert.NoError(t, err)
	assert.Equal(t, survey.TestFamilyUnknown, state.TestFamily)
	assert.Empty(t, state.Significance)
	assert.Contains(t, state.SignificanceSummary, "수행하지 않았습니다")
	assert.Equal(t, "최종 보고서", state.FinalReport)
}

func TestAnalyzeQuestionForcedManual(t *testing.T) {
	narrative := &testkit.ScriptedGenerator{Responses: []string{"초안", "최종 보고서"}}
	pipeline, _ := pipelineFixture(narrative, &testkit.ScriptedGenerator{})

	set, err := excel.ParseStatisticsRows(testkit.StatisticsRows(testkit.ChoiceBlock("B3")))
	assert.NoError(t, err)
	wb := &Workbook{
		TableSet: set,
		Raw:      testkit.BalancedRawTable("B3", []string{"1"}, []string{"2"}),
		Demo:     testkit.DemoMap(),
	}

	plan := &AnalysisPlan{UseStat: true, TestType: survey.TestFamilyManual}
	state, err := pipeline.AnalyzeQuestion(context.Background(), wb, "B3", core.NewRunID(), survey.LanguageKorean, plan, nil)
	assert.NoError(t, err)
	assert.Equal(t, survey.TestFamilyManual, state.TestFamily)
	assert.Len(t, state.ManualRows, 2)
	assert.Empty(t, state.Significance)
	assert.NotEmpty(t, state.SignificanceSummary)
}

func TestAnalyzeQuestionUnknownKey(t *testing.T) {
	narrative := &testkit.ScriptedGenerator{Responses: []string{"초안"}}
	pipeline, _ := pipelineFixture(narrative, &testkit.ScriptedGenerator{})
	wb := likertWorkbook(t)

	_, err := pipeline.AnalyzeQuestion(context.Background(), wb, "Z9", core.NewRunID(), survey.LanguageKorean, nil, genderMapping())
	assert.Error(t, err)
}

func TestAnalyzeQuestionBuildsMappingWhenAbsent(t *testing.T) {
	narrative := &testkit.ScriptedGenerator{Responses: []string{"초안", "최종 보고서"}}
	mapGen := &testkit.ScriptedGenerator{Responses: []string{
		"열 분석 결과",
		"매핑 계획",
		genderRules,
		genderRules,
		acceptCritique,
	}}
	pipeline, _ := pipelineFixture(narrative, mapGen)
	wb := likertWorkbook(t)

	state, err := pipeline.AnalyzeQuestion(context.Background(), wb, "A1", core.NewRunID(), survey.LanguageKorean, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 5, mapGen.Calls())
	assert.NotNil(t, state.MappingSpec)
	assert.True(t, state.MappingCritique.Accepted())
	assert.False(t, state.MappingDegraded)
}

func TestAnalyzeQuestionMappingFailureCode(t *testing.T) {
	narrative := &testkit.ScriptedGenerator{Responses: []string{"초안"}}
	mapGen := &testkit.ScriptedGenerator{Err: errors.New("api down")}
	pipeline, _ := pipelineFixture(narrative, mapGen)
	wb := likertWorkbook(t)

	_, err := pipeline.AnalyzeQuestion(context.Background(), wb, "A1", core.NewRunID(), survey.LanguageKorean, nil, nil)
	assert.Error(t, err)
	assert.Equal(t, apperrors.CodeMappingError, apperrors.GetCode(err))
}
