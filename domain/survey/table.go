package survey

import (
	"fmt"
	"strings"

	"surveyscribe/domain/core"
)

// Reserved column names of a CategorizedTable. The first two positional
// columns of every parsed question block are renamed to these regardless of
// their header text; the third becomes the sample-size column when present.
const (
	ColMajorCategory = "major_category"
	ColMinorCategory = "minor_category"
	ColSampleSize    = "sample_size"
)

// Cell holds one table value. Numeric cells keep both the parsed number and
// the original text; missing cells have empty text.
type Cell struct {
	Text    string
	Number  float64
	Numeric bool
}

// NumericCell creates a numeric cell.
func NumericCell(v float64) Cell {
	return Cell{Text: fmt.Sprintf("%g", v), Number: v, Numeric: true}
}

// TextCell creates a text cell.
func TextCell(s string) Cell {
	return Cell{Text: s}
}

// Missing reports whether the cell carries no value.
func (c Cell) Missing() bool {
	return !c.Numeric && strings.TrimSpace(c.Text) == ""
}

// String renders the cell for prompts and logs.
func (c Cell) String() string {
	if c.Numeric {
		return fmt.Sprintf("%g", c.Number)
	}
	return c.Text
}

// CategorizedTable is a row-oriented numeric table with the two reserved
// leading category columns plus sample size and value columns. It is mutated
// only during parsing and read-only afterward.
type CategorizedTable struct {
	Columns []string
	Rows    [][]Cell
}

// ColumnIndex returns the position of a named column, or -1.
func (t *CategorizedTable) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Value returns the cell at (row, column name). The zero Cell is returned for
// unknown columns or out-of-range rows.
func (t *CategorizedTable) Value(row int, column string) Cell {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return Cell{}
	}
	return t.Rows[row][idx]
}

// ValueColumns returns the non-reserved column names, in table order.
func (t *CategorizedTable) ValueColumns() []string {
	var cols []string
	for _, col := range t.Columns {
		switch col {
		case ColMajorCategory, ColMinorCategory, ColSampleSize:
			continue
		}
		cols = append(cols, col)
	}
	return cols
}

// MajorCategories returns the distinct major category labels in row order.
func (t *CategorizedTable) MajorCategories() []string {
	return t.distinctColumn(ColMajorCategory)
}

// MinorCategories returns the distinct minor category labels in row order.
func (t *CategorizedTable) MinorCategories() []string {
	return t.distinctColumn(ColMinorCategory)
}

func (t *CategorizedTable) distinctColumn(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, row := range t.Rows {
		if idx >= len(row) {
			continue
		}
		v := row[idx].String()
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// RowLabels returns "major_minor" labels for every row, used by the
// hypothesis and narrative prompts.
func (t *CategorizedTable) RowLabels() []string {
	major := t.ColumnIndex(ColMajorCategory)
	minor := t.ColumnIndex(ColMinorCategory)
	labels := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		var parts []string
		if major >= 0 && major < len(row) && !row[major].Missing() {
			parts = append(parts, row[major].String())
		}
		if minor >= 0 && minor < len(row) && !row[minor].Missing() {
			parts = append(parts, row[minor].String())
		}
		labels = append(labels, strings.Join(parts, "_"))
	}
	return labels
}

// OverallRow locates the whole-sample row ("전 체"/"전체"/"Total"), returning
// its index or an error when absent.
func (t *CategorizedTable) OverallRow() (int, error) {
	idx := t.ColumnIndex(ColMajorCategory)
	if idx < 0 {
		return -1, core.ErrOverallRowAbsent
	}
	for i, row := range t.Rows {
		if idx >= len(row) {
			continue
		}
		label := strings.ReplaceAll(strings.TrimSpace(row[idx].String()), " ", "")
		if label == "전체" || strings.EqualFold(label, "total") {
			return i, nil
		}
	}
	return -1, core.ErrOverallRowAbsent
}

// Linearize renders the table row-wise ("col: val; col: val | ...") for
// prompt construction.
func (t *CategorizedTable) Linearize() string {
	rows := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		parts := make([]string, 0, len(t.Columns))
		for i, col := range t.Columns {
			if i >= len(row) {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: %s", col, row[i].String()))
		}
		rows = append(rows, strings.Join(parts, "; "))
	}
	return strings.Join(rows, " | ")
}

// QuestionRecord pairs a parsed table with its original heading text.
type QuestionRecord struct {
	QuestionText string
	Table        *CategorizedTable
}

// SurveyTableSet is the result of parsing one statistics sheet: question key
// to record, plus the key list in sheet appearance order. Immutable after
// parsing.
type SurveyTableSet struct {
	Records map[core.QuestionKey]QuestionRecord
	Keys    []core.QuestionKey
}

// Record returns the record for a key.
func (s *SurveyTableSet) Record(key core.QuestionKey) (QuestionRecord, error) {
	rec, ok := s.Records[key]
	if !ok {
		return QuestionRecord{}, core.NewQuestionNotFoundError(key)
	}
	return rec, nil
}

// Len returns the number of parsed questions.
func (s *SurveyTableSet) Len() int { return len(s.Keys) }
