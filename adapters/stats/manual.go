package stats

import (
	"fmt"
	"math"

	mstats "github.com/montanaflynn/stats"

	"surveyscribe/domain/survey"
)

const ciZ = 1.96

// ManualAnalysis compares each category row of a leading anchor column
// against the overall row using a normal-approximation interval. Used for
// rank and multi-response questions where neither an F/T test nor a
// chi-square applies.
func ManualAnalysis(table *survey.CategorizedTable) ([]survey.ManualRow, error) {
	overall, err := table.OverallRow()
	if err != nil {
		return nil, err
	}
	anchors := AnchorColumns(table)
	if len(anchors) == 0 {
		return nil, fmt.Errorf("manual analysis: no usable value column")
	}
	column := anchors[0]

	var values []float64
	type labeled struct {
		label string
		value float64
	}
	var rows []labeled
	labels := table.RowLabels()
	for i := range table.Rows {
		if i == overall {
			continue
		}
		cell := table.Value(i, column)
		if !cell.Numeric {
			continue
		}
		values = append(values, cell.Number)
		rows = append(rows, labeled{label: labels[i], value: cell.Number})
	}
	if len(values) < 2 {
		return nil, fmt.Errorf("manual analysis: fewer than two category rows for column %q", column)
	}

	baselineCell := table.Value(overall, column)
	if !baselineCell.Numeric {
		return nil, fmt.Errorf("manual analysis: overall value missing for column %q", column)
	}
	baseline := baselineCell.Number

	sd, err := mstats.StandardDeviationSample(values)
	if err != nil {
		return nil, fmt.Errorf("manual analysis: %w", err)
	}
	margin := ciZ * sd / math.Sqrt(float64(len(values)))
	lower := baseline - margin
	upper := baseline + margin

	out := make([]survey.ManualRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, survey.ManualRow{
			CategoryLabel: r.label,
			Value:         r.value,
			Baseline:      baseline,
			CILower:       round3(lower),
			CIUpper:       round3(upper),
			Significant:   r.value < lower || r.value > upper,
		})
	}
	return out, nil
}
