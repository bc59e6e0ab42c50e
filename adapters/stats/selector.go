package stats

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"surveyscribe/domain/survey"
	"surveyscribe/ports"
)

// multiResponseMarkers route rank/multi-select questions to the manual path:
// those responses suit neither test family below.
var multiResponseMarkers = []string{
	"1+2", "1+2+3", "복수", "다중", "multiple", "rank", "ranking", "우선순위",
}

// likertPatterns is the curated list of interval-like phrase patterns.
// Column naming in these exports conflates option text with numeric response
// summaries; a column named after a Likert option ("전혀 관심 없다") holds a
// percentage, so it belongs to the F/T family.
var likertPatterns = []*regexp.Regexp{
	// interest
	regexp.MustCompile(`전혀\s*관심`), regexp.MustCompile(`관심\s*없(다|는)`),
	regexp.MustCompile(`관심\s*있(다|는)`), regexp.MustCompile(`매우\s*관심`), regexp.MustCompile(`관심`),
	// satisfaction
	regexp.MustCompile(`매우\s*만족`), regexp.MustCompile(`만족`), regexp.MustCompile(`불만족`), regexp.MustCompile(`보통`),
	// agreement
	regexp.MustCompile(`찬성`), regexp.MustCompile(`반대`),
	regexp.MustCompile(`대체로\s*찬성`), regexp.MustCompile(`대체로\s*반대`),
	// importance
	regexp.MustCompile(`매우\s*중요`), regexp.MustCompile(`중요`),
	regexp.MustCompile(`그다지\s*중요하지\s*않`), regexp.MustCompile(`전혀\s*중요하지\s*않`),
	// severity
	regexp.MustCompile(`매우\s*심각`), regexp.MustCompile(`심각`), regexp.MustCompile(`심각하지\s*않`),
	// frequency
	regexp.MustCompile(`자주`), regexp.MustCompile(`가끔`), regexp.MustCompile(`거의\s*없`), regexp.MustCompile(`전혀\s*없`),
	// safety
	regexp.MustCompile(`안전`), regexp.MustCompile(`위험`),
	// awareness / experience
	regexp.MustCompile(`들어본\s*적`), regexp.MustCompile(`사용한\s*적`), regexp.MustCompile(`경험했`), regexp.MustCompile(`인지`),
	// intention
	regexp.MustCompile(`의향`), regexp.MustCompile(`예정`), regexp.MustCompile(`계획`), regexp.MustCompile(`할\s*것`),
	// degree adverbs
	regexp.MustCompile(`매우`), regexp.MustCompile(`약간`), regexp.MustCompile(`그다지`), regexp.MustCompile(`전혀`),
	// numeric summary markers
	regexp.MustCompile(`평균`), regexp.MustCompile(`\d점\s*척도`), regexp.MustCompile(`척도`), regexp.MustCompile(`점수`),
}

const fallbackPrompt = `당신은 통계 전문가입니다.

아래는 설문 응답 결과 테이블의 열 이름 목록입니다. 이 테이블이 F/T-test와
Chi-square 중 어떤 통계 검정에 적합한지 판단하세요.

열 이름 목록: %s

- 평균, 비율, 점수 등 수치 요약 중심이면 ft_test
- 항목 선택/다중선택 결과이면 chi_square

반드시 다음 중 하나로만 답하세요 (소문자): ft_test 또는 chi_square`

// Selector decides which test family applies to a question. The rule set is
// deterministic; the text-generation fallback is consulted only when the
// rules leave the choice open.
type Selector struct {
	generator ports.TextGenerator
}

// NewSelector creates a selector. The generator may be nil, in which case
// unresolved questions default to the chi-square family.
func NewSelector(generator ports.TextGenerator) *Selector {
	return &Selector{generator: generator}
}

// RuleBasedFamily applies the fixed rule set to value-column names and
// question text. The second return reports whether the rules decided: manual
// markers and Likert patterns decide; everything else is left open for the
// fallback classifier.
func RuleBasedFamily(columns []string, questionText string) (survey.TestFamily, bool) {
	haystack := strings.ToLower(strings.Join(columns, " ") + " " + questionText)
	for _, marker := range multiResponseMarkers {
		if strings.Contains(haystack, strings.ToLower(marker)) {
			return survey.TestFamilyManual, true
		}
	}
	for _, col := range columns {
		for _, pat := range likertPatterns {
			if pat.MatchString(col) {
				return survey.TestFamilyFT, true
			}
		}
	}
	return survey.TestFamilyChiSquare, false
}

// Select resolves the test family for a question: rules first, then the
// fallback classifier constrained to the two family tokens. Fallback errors
// or off-contract answers settle on chi-square.
func (s *Selector) Select(ctx context.Context, table *survey.CategorizedTable, questionText string) survey.TestFamily {
	columns := table.ValueColumns()
	family, decided := RuleBasedFamily(columns, questionText)
	if decided {
		return family
	}
	if s.generator == nil {
		return survey.TestFamilyChiSquare
	}

	answer, err := s.generator.Generate(ctx, fmt.Sprintf(fallbackPrompt, strings.Join(columns, ", ")))
	if err != nil {
		log.Printf("[Selector] fallback classifier failed, defaulting to chi_square: %v", err)
		return survey.TestFamilyChiSquare
	}
	switch NormalizeFamilyToken(answer) {
	case survey.TestFamilyFT:
		return survey.TestFamilyFT
	case survey.TestFamilyChiSquare:
		return survey.TestFamilyChiSquare
	default:
		log.Printf("[Selector] fallback answer %q unrecognized, defaulting to chi_square", answer)
		return survey.TestFamilyChiSquare
	}
}

// NormalizeFamilyToken maps a free-text classifier answer onto a family
// token, or unknown.
func NormalizeFamilyToken(answer string) survey.TestFamily {
	lower := strings.ToLower(answer)
	switch {
	case strings.Contains(lower, "chi"):
		return survey.TestFamilyChiSquare
	case strings.Contains(lower, "ft"):
		return survey.TestFamilyFT
	default:
		return survey.TestFamilyUnknown
	}
}
