package survey

// TestFamily classifies which hypothesis-test family applies to a question.
type TestFamily string

const (
	// TestFamilyFT covers interval-like response summaries tested with the
	// Levene-gated t-test / one-way ANOVA family.
	TestFamilyFT TestFamily = "ft_test"
	// TestFamilyChiSquare covers categorical selections tested with the
	// chi-square test of independence.
	TestFamilyChiSquare TestFamily = "chi_square"
	// TestFamilyManual marks rank/multi-select questions routed to the
	// confidence-interval inspection path.
	TestFamilyManual TestFamily = "manual"
	// TestFamilyUnknown is what an unconstrained classifier answer maps to.
	TestFamilyUnknown TestFamily = "unknown"
)

// SignificanceRow is one demographic category's test result for the selected
// question.
type SignificanceRow struct {
	CategoryLabel string  `json:"category_label" db:"category_label"`
	Statistic     float64 `json:"statistic" db:"statistic"`
	PValue        float64 `json:"p_value" db:"p_value"`
	Stars         string  `json:"stars" db:"stars"`
}

// Significant reports whether the row carries at least one star.
func (r SignificanceRow) Significant() bool { return r.Stars != "" }

// StarCount returns the number of stars on the row.
func (r SignificanceRow) StarCount() int { return len([]rune(r.Stars)) }

// StarsForPValue assigns significance markers by fixed thresholds:
// p < 0.001 → "***", p < 0.01 → "**", p < 0.05 → "*", otherwise none.
func StarsForPValue(p float64) string {
	switch {
	case p < 0.001:
		return "***"
	case p < 0.01:
		return "**"
	case p < 0.05:
		return "*"
	default:
		return ""
	}
}
