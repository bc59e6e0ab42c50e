package stats

import (
	"fmt"
	"sort"
	"strings"

	"surveyscribe/domain/survey"
)

const fallbackSummaryCount = 3

// SummarizeSignificance turns the per-category test rows into one sentence a
// narrative draft can quote. Three cases: every category significant, some
// significant, none significant. In the last case the three lowest p-values
// are named so the draft still has something concrete to say.
func SummarizeSignificance(rows []survey.SignificanceRow, lang survey.Language) string {
	if len(rows) == 0 {
		if lang == survey.LanguageEnglish {
			return "No demographic category could be tested."
		}
		return "검정 가능한 인구통계 범주가 없습니다."
	}

	var significant []string
	for _, r := range rows {
		if r.Significant() {
			significant = append(significant, r.CategoryLabel)
		}
	}

	switch {
	case len(significant) == len(rows):
		if lang == survey.LanguageEnglish {
			return "Responses differ significantly across every demographic category tested."
		}
		return "검정한 모든 인구통계 범주에서 응답이 통계적으로 유의한 차이를 보입니다."
	case len(significant) > 0:
		if lang == survey.LanguageEnglish {
			return fmt.Sprintf("Responses differ significantly by %s.", strings.Join(significant, ", "))
		}
		return fmt.Sprintf("%s에 따라 응답이 통계적으로 유의한 차이를 보입니다.", strings.Join(significant, ", "))
	default:
		lowest := lowestPValues(rows, fallbackSummaryCount)
		if lang == survey.LanguageEnglish {
			return fmt.Sprintf("No category reached significance; the closest were %s.", strings.Join(lowest, ", "))
		}
		return fmt.Sprintf("유의수준에 도달한 범주는 없으며, 가장 근접한 범주는 %s입니다.", strings.Join(lowest, ", "))
	}
}

// SummarizeManual does the same for the confidence-interval comparison rows
// of the manual path.
func SummarizeManual(rows []survey.ManualRow, lang survey.Language) string {
	if len(rows) == 0 {
		if lang == survey.LanguageEnglish {
			return "No category row was available for comparison."
		}
		return "비교 가능한 범주 행이 없습니다."
	}

	var outside []string
	for _, r := range rows {
		if r.Significant {
			outside = append(outside, r.CategoryLabel)
		}
	}
	if len(outside) == 0 {
		if lang == survey.LanguageEnglish {
			return "Every category falls within the 95% confidence interval of the overall value."
		}
		return "모든 범주가 전체 값의 95% 신뢰구간 안에 있습니다."
	}
	if lang == survey.LanguageEnglish {
		return fmt.Sprintf("Categories outside the 95%% confidence interval of the overall value: %s.", strings.Join(outside, ", "))
	}
	return fmt.Sprintf("전체 값의 95%% 신뢰구간을 벗어난 범주: %s.", strings.Join(outside, ", "))
}

func lowestPValues(rows []survey.SignificanceRow, n int) []string {
	sorted := make([]survey.SignificanceRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PValue < sorted[j].PValue
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]string, 0, n)
	for _, r := range sorted[:n] {
		out = append(out, fmt.Sprintf("%s (p=%.4f)", r.CategoryLabel, r.PValue))
	}
	return out
}
