package survey

import (
	"strings"

	"surveyscribe/domain/core"
)

// Language selects the prompt/label template set. It changes wording only,
// never logic.
type Language string

const (
	LanguageKorean  Language = "한국어"
	LanguageEnglish Language = "English"
)

// ParseLanguage resolves a configured language name, defaulting to Korean.
func ParseLanguage(s string) Language {
	switch s {
	case "English", "english", "en":
		return LanguageEnglish
	default:
		return LanguageKorean
	}
}

// WorkflowState is the record threaded through one question's pipeline run.
// It is append-only across stage boundaries: each stage reads the fields it
// needs and sets its own output fields; no stage clears another stage's
// output. A fresh state is used per question in batch mode.
type WorkflowState struct {
	RunID    core.RunID
	Language Language

	// Set by the table-parsing stage.
	TableSet         *SurveyTableSet
	SelectedKey      core.QuestionKey
	SelectedQuestion string
	SelectedTable    *CategorizedTable
	LinearizedTable  string

	// Set by the hypothesis stage (advisory, non-binding).
	Hypotheses []string

	// Set by the anchor stage.
	Anchor []string

	// Set by the raw-data loading stage.
	RawData *RawTable
	DemoMap DemographicMap

	// Set by the variable-mapping stage.
	MappingSpec     *MappingSpec
	MappingReport   *MappingReport
	MappingCritique *MappingCritique
	MappingDegraded bool

	// Set by the significance stage.
	TestFamily          TestFamily
	Significance        []SignificanceRow
	ManualRows          []ManualRow
	SignificanceSummary string

	// Set by the narrative stages.
	Draft           string
	RevisionHistory []string
	RejectCount     int
	ForceAccepted   bool
	FinalReport     string
}

// LatestDraft returns the most recent narrative text: the last revision if
// any exist, otherwise the first draft.
func (s *WorkflowState) LatestDraft() string {
	if n := len(s.RevisionHistory); n > 0 {
		return s.RevisionHistory[n-1]
	}
	return s.Draft
}

// MappingCritique is the structured verdict of the mapping critic stage.
type MappingCritique struct {
	Decision    string   `json:"decision"` // "accept" | "reject"
	Reasons     []string `json:"reasons"`
	Suggestions []string `json:"suggestions"`
	Score       int      `json:"score"`
}

// Accepted reports whether the critic passed the mapping.
func (c *MappingCritique) Accepted() bool {
	return c != nil && strings.EqualFold(strings.TrimSpace(c.Decision), "accept")
}
