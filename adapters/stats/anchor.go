package stats

import (
	"sort"
	"strings"

	"surveyscribe/domain/survey"
)

const anchorCumulativeTarget = 60.0

// scaleColumnMarkers name aggregate scale columns that must never anchor a
// narrative: they summarize the distribution rather than describe a choice.
var scaleColumnMarkers = []string{
	"평균", "점척도", "척도", "점수", "관심있다", "관심없다", "만족", "불만족",
	"종합", "소계",
}

// AnchorColumns picks the value columns a narrative should lead with. It
// reads the overall row, drops reserved and aggregate scale columns, sorts
// the rest by value descending and keeps columns until their cumulative
// share reaches 60 percent. At least one column is always returned when any
// candidate exists.
func AnchorColumns(table *survey.CategorizedTable) []string {
	row, err := table.OverallRow()
	if err != nil {
		return nil
	}

	type anchor struct {
		column string
		value  float64
	}
	var candidates []anchor
	for _, col := range table.ValueColumns() {
		if isScaleColumn(col) {
			continue
		}
		cell := table.Value(row, col)
		if !cell.Numeric {
			continue
		}
		candidates = append(candidates, anchor{column: col, value: cell.Number})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].value > candidates[j].value
	})

	var picked []string
	cumulative := 0.0
	for _, c := range candidates {
		picked = append(picked, c.column)
		cumulative += c.value
		if cumulative >= anchorCumulativeTarget {
			break
		}
	}
	return picked
}

func isScaleColumn(name string) bool {
	for _, marker := range scaleColumnMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}
