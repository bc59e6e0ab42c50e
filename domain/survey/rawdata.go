package survey

import (
	"sort"
	"strconv"
	"strings"
)

// RawRow is one respondent's answers as header → cell text.
type RawRow map[string]string

// RawTable holds respondent-level data from the DATA sheet. Header names are
// normalized at read time (separators to underscores, trimmed) so question
// keys address columns directly.
type RawTable struct {
	Headers []string
	Rows    []RawRow
}

// HasColumn reports whether the table carries a named column.
func (t *RawTable) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// AddColumn registers a column name if not already present. Values are set
// per row by the mapping evaluator.
func (t *RawTable) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Headers = append(t.Headers, name)
	}
}

// Column returns the raw text values of a column, one per row. Missing
// entries come back as empty strings.
func (t *RawTable) Column(name string) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = strings.TrimSpace(row[name])
	}
	return out
}

// NumericColumn parses a column to float64, skipping blank and non-numeric
// entries. The returned mask marks which rows parsed.
func (t *RawTable) NumericColumn(name string) ([]float64, []bool) {
	values := make([]float64, len(t.Rows))
	ok := make([]bool, len(t.Rows))
	for i, row := range t.Rows {
		s := strings.TrimSpace(row[name])
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			continue
		}
		values[i] = v
		ok[i] = true
	}
	return values, ok
}

// GroupBy partitions a numeric value column by the distinct values of a
// grouping column. Rows with a blank group or unparsable value are skipped.
// Group order is deterministic (sorted by group label).
func (t *RawTable) GroupBy(groupCol, valueCol string) [][]float64 {
	values, parsed := t.NumericColumn(valueCol)
	buckets := make(map[string][]float64)
	for i, row := range t.Rows {
		g := strings.TrimSpace(row[groupCol])
		if g == "" || !parsed[i] {
			continue
		}
		buckets[g] = append(buckets[g], values[i])
	}
	labels := make([]string, 0, len(buckets))
	for g := range buckets {
		labels = append(labels, g)
	}
	sort.Strings(labels)
	groups := make([][]float64, 0, len(labels))
	for _, g := range labels {
		groups = append(groups, buckets[g])
	}
	return groups
}

// Crosstab builds a contingency table rowCol × colCol over non-blank pairs.
// Level order is deterministic (sorted labels).
func (t *RawTable) Crosstab(rowCol, colCol string) [][]int {
	rowLevels := make(map[string]int)
	colLevels := make(map[string]int)
	var rowLabels, colLabels []string
	type pair struct{ r, c string }
	var pairs []pair
	for _, row := range t.Rows {
		r := strings.TrimSpace(row[rowCol])
		c := strings.TrimSpace(row[colCol])
		if r == "" || c == "" {
			continue
		}
		if _, ok := rowLevels[r]; !ok {
			rowLevels[r] = 0
			rowLabels = append(rowLabels, r)
		}
		if _, ok := colLevels[c]; !ok {
			colLevels[c] = 0
			colLabels = append(colLabels, c)
		}
		pairs = append(pairs, pair{r, c})
	}
	sort.Strings(rowLabels)
	sort.Strings(colLabels)
	for i, l := range rowLabels {
		rowLevels[l] = i
	}
	for i, l := range colLabels {
		colLevels[l] = i
	}
	table := make([][]int, len(rowLabels))
	for i := range table {
		table[i] = make([]int, len(colLabels))
	}
	for _, p := range pairs {
		table[rowLevels[p.r]][colLevels[p.c]]++
	}
	return table
}

// DemographicMap maps a respondent-level variable code ("DEMO3") to its
// human-readable label ("지역"). Built once per raw-data upload; immutable.
type DemographicMap map[string]string

// Codes returns the variable codes in sorted order for deterministic
// iteration.
func (m DemographicMap) Codes() []string {
	codes := make([]string, 0, len(m))
	for c := range m {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
