package survey

// ManualRow is one confidence-interval comparison for a question outside
// both test families. Instead of a p-value it carries the overall baseline
// and a 95 percent interval around it; a category whose value falls outside
// the interval is flagged.
type ManualRow struct {
	CategoryLabel string  `db:"category_label" json:"category_label"`
	Value         float64 `db:"value" json:"value"`
	Baseline      float64 `db:"baseline" json:"baseline"`
	CILower       float64 `db:"ci_lower" json:"ci_lower"`
	CIUpper       float64 `db:"ci_upper" json:"ci_upper"`
	Significant   bool    `db:"significant" json:"significant"`
}
