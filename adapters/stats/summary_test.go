package stats

import (
	"strings"
	"testing"

	"surveyscribe/domain/survey"
)

func TestSummarizeSignificanceAll(t *testing.T) {
	rows := []survey.SignificanceRow{
		{CategoryLabel: "성별", PValue: 0.003, Stars: "**"},
		{CategoryLabel: "연령", PValue: 0.021, Stars: "*"},
	}
	got := SummarizeSignificance(rows, survey.LanguageKorean)
	if !strings.Contains(got, "모든 인구통계 범주") {
		t.Errorf("summary = %q, want all-categories wording", got)
	}
}

func TestSummarizeSignificanceSome(t *testing.T) {
	rows := []survey.SignificanceRow{
		{CategoryLabel: "성별", PValue: 0.003, Stars: "**"},
		{CategoryLabel: "연령", PValue: 0.41},
	}
	got := SummarizeSignificance(rows, survey.LanguageKorean)
	if !strings.Contains(got, "성별") || strings.Contains(got, "연령") {
		t.Errorf("summary = %q, want only the significant category named", got)
	}
}

func TestSummarizeSignificanceNone(t *testing.T) {
	rows := []survey.SignificanceRow{
		{CategoryLabel: "성별", PValue: 0.41},
		{CategoryLabel: "연령", PValue: 0.12},
		{CategoryLabel: "지역", PValue: 0.73},
		{CategoryLabel: "소득", PValue: 0.09},
	}
	got := SummarizeSignificance(rows, survey.LanguageKorean)
	for _, want := range []string{"소득 (p=0.0900)", "연령 (p=0.1200)", "성별 (p=0.4100)"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary = %q, want it to name %q", got, want)
		}
	}
	if strings.Contains(got, "지역") {
		t.Errorf("summary = %q, names more than the three lowest p-values", got)
	}
}

func TestSummarizeSignificanceEmpty(t *testing.T) {
	ko := SummarizeSignificance(nil, survey.LanguageKorean)
	en := SummarizeSignificance(nil, survey.LanguageEnglish)
	if ko == "" || en == "" || ko == en {
		t.Errorf("empty summaries = %q / %q", ko, en)
	}
}

func TestSummarizeSignificanceEnglish(t *testing.T) {
	rows := []survey.SignificanceRow{{CategoryLabel: "Gender", PValue: 0.003, Stars: "**"}}
	got := SummarizeSignificance(rows, survey.LanguageEnglish)
	if !strings.Contains(got, "every demographic category") {
		t.Errorf("summary = %q, want English all-categories wording", got)
	}
}

func TestSummarizeManual(t *testing.T) {
	rows := []survey.ManualRow{
		{CategoryLabel: "성별_남자", Significant: true},
		{CategoryLabel: "성별_여자", Significant: false},
	}
	got := SummarizeManual(rows, survey.LanguageKorean)
	if !strings.Contains(got, "성별_남자") || strings.Contains(got, "성별_여자") {
		t.Errorf("summary = %q, want only the outside category named", got)
	}

	none := SummarizeManual([]survey.ManualRow{{CategoryLabel: "x"}}, survey.LanguageKorean)
	if !strings.Contains(none, "신뢰구간 안에") {
		t.Errorf("summary = %q, want inside-interval wording", none)
	}

	empty := SummarizeManual(nil, survey.LanguageEnglish)
	if !strings.Contains(empty, "No category row") {
		t.Errorf("summary = %q, want empty wording", empty)
	}
}
