package stats

import (
	"fmt"
	"log"
	"math"

	"surveyscribe/domain/core"
	"surveyscribe/domain/survey"

	mstats "github.com/montanaflynn/stats"
)

// leveneAlpha gates the equal-variance assumption for two-group t-tests.
const leveneAlpha = 0.05

// Tester runs the selected hypothesis-test family per demographic category
// against raw respondent data.
type Tester struct {
	dist *Distributions
}

// NewTester creates a significance tester.
func NewTester() *Tester {
	return &Tester{dist: NewDistributions()}
}

// Run executes one test per demographic category present in both the mapped
// raw table and the demographic map. Per-category failures (degenerate
// groups, missing columns) are skipped, never fatal.
func (t *Tester) Run(family survey.TestFamily, raw *survey.RawTable, questionKey core.QuestionKey, demo survey.DemographicMap) []survey.SignificanceRow {
	var rows []survey.SignificanceRow
	questionCol := core.NormalizeKey(questionKey.String())
	if !raw.HasColumn(questionCol) {
		log.Printf("[Tester] question column %s absent from raw data, nothing to test", questionCol)
		return rows
	}

	for _, code := range demo.Codes() {
		if !raw.HasColumn(code) {
			continue
		}
		var row *survey.SignificanceRow
		var err error
		switch family {
		case survey.TestFamilyFT:
			row, err = t.runFT(raw, code, questionCol)
		case survey.TestFamilyChiSquare:
			row, err = t.runChiSquare(raw, code, questionCol)
		default:
			continue
		}
		if err != nil {
			log.Printf("[Tester] %s skipped for %s: %v", family, demo[code], err)
			continue
		}
		row.CategoryLabel = demo[code]
		rows = append(rows, *row)
	}
	return rows
}

// runFT groups respondent values by the demographic column, checks variance
// homogeneity with Levene's test, then runs a two-sample t-test (2 groups)
// or one-way ANOVA (3+ groups).
func (t *Tester) runFT(raw *survey.RawTable, groupCol, questionCol string) (*survey.SignificanceRow, error) {
	groups := nonEmptyGroups(raw.GroupBy(groupCol, questionCol))
	if len(groups) < 2 {
		return nil, core.ErrInsufficientGroups
	}

	_, leveneP, err := t.Levene(groups)
	if err != nil {
		return nil, err
	}

	var stat, p float64
	if len(groups) == 2 {
		equalVar := leveneP > leveneAlpha
		stat, p, err = t.TwoSampleTTest(groups[0], groups[1], equalVar)
	} else {
		stat, p, err = t.OneWayANOVA(groups)
	}
	if err != nil {
		return nil, err
	}

	return &survey.SignificanceRow{
		Statistic: round3(math.Abs(stat)),
		PValue:    round4(p),
		Stars:     survey.StarsForPValue(p),
	}, nil
}

// runChiSquare builds a category × response contingency table and tests
// independence. Tables with fewer than 2 levels on either dimension are
// skipped.
func (t *Tester) runChiSquare(raw *survey.RawTable, groupCol, questionCol string) (*survey.SignificanceRow, error) {
	table := raw.Crosstab(groupCol, questionCol)
	if len(table) < 2 || len(table[0]) < 2 {
		return nil, fmt.Errorf("%w: contingency table %dx%d", core.ErrInsufficientGroups, len(table), colCount(table))
	}

	chi2, p, err := t.ChiSquareIndependence(table)
	if err != nil {
		return nil, err
	}

	return &survey.SignificanceRow{
		Statistic: round3(chi2),
		PValue:    round4(p),
		Stars:     survey.StarsForPValue(p),
	}, nil
}

// Levene runs a median-centered Levene test (Brown-Forsythe) of variance
// homogeneity across groups, returning the W statistic and its p-value.
func (t *Tester) Levene(groups [][]float64) (float64, float64, error) {
	k := len(groups)
	if k < 2 {
		return 0, 1, core.ErrInsufficientGroups
	}

	n := 0
	z := make([][]float64, k)
	zMeans := make([]float64, k)
	grand := 0.0
	for i, g := range groups {
		med, err := mstats.Median(g)
		if err != nil {
			return 0, 1, err
		}
		z[i] = make([]float64, len(g))
		for j, v := range g {
			z[i][j] = math.Abs(v - med)
		}
		m, err := mstats.Mean(z[i])
		if err != nil {
			return 0, 1, err
		}
		zMeans[i] = m
		grand += m * float64(len(g))
		n += len(g)
	}
	grand /= float64(n)

	between := 0.0
	within := 0.0
	for i, g := range groups {
		between += float64(len(g)) * (zMeans[i] - grand) * (zMeans[i] - grand)
		for _, zij := range z[i] {
			within += (zij - zMeans[i]) * (zij - zMeans[i])
		}
	}
	if within == 0 {
		// All deviations identical within groups; homogeneity holds trivially.
		return 0, 1, nil
	}

	w := (float64(n-k) / float64(k-1)) * (between / within)
	p := t.dist.FTestPValue(w, float64(k-1), float64(n-k))
	return w, p, nil
}

// TwoSampleTTest runs an independent two-sample t-test. With equalVar the
// pooled-variance form is used, otherwise Welch's form with
// Welch-Satterthwaite degrees of freedom.
func (t *Tester) TwoSampleTTest(a, b []float64, equalVar bool) (float64, float64, error) {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 2 || n2 < 2 {
		return 0, 1, core.ErrInsufficientGroups
	}
	m1, err := mstats.Mean(a)
	if err != nil {
		return 0, 1, err
	}
	m2, err := mstats.Mean(b)
	if err != nil {
		return 0, 1, err
	}
	v1, err := mstats.SampleVariance(a)
	if err != nil {
		return 0, 1, err
	}
	v2, err := mstats.SampleVariance(b)
	if err != nil {
		return 0, 1, err
	}

	var se, df float64
	if equalVar {
		pooled := ((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2)
		se = math.Sqrt(pooled * (1/n1 + 1/n2))
		df = n1 + n2 - 2
	} else {
		se = math.Sqrt(v1/n1 + v2/n2)
		df = math.Pow(v1/n1+v2/n2, 2) /
			(math.Pow(v1/n1, 2)/(n1-1) + math.Pow(v2/n2, 2)/(n2-1))
	}
	if se == 0 {
		return 0, 1, fmt.Errorf("%w: zero variance in both groups", core.ErrInsufficientGroups)
	}

	tStat := (m1 - m2) / se
	p := t.dist.TTestPValue(tStat, df)
	return tStat, p, nil
}

// OneWayANOVA runs a one-way analysis of variance across 3+ groups,
// returning the F statistic and its p-value.
func (t *Tester) OneWayANOVA(groups [][]float64) (float64, float64, error) {
	k := len(groups)
	if k < 2 {
		return 0, 1, core.ErrInsufficientGroups
	}

	n := 0
	grand := 0.0
	means := make([]float64, k)
	for i, g := range groups {
		m, err := mstats.Mean(g)
		if err != nil {
			return 0, 1, err
		}
		means[i] = m
		grand += m * float64(len(g))
		n += len(g)
	}
	grand /= float64(n)

	ssBetween := 0.0
	ssWithin := 0.0
	for i, g := range groups {
		ssBetween += float64(len(g)) * (means[i] - grand) * (means[i] - grand)
		for _, v := range g {
			ssWithin += (v - means[i]) * (v - means[i])
		}
	}
	if ssWithin == 0 {
		return 0, 1, fmt.Errorf("%w: zero within-group variance", core.ErrInsufficientGroups)
	}

	f := (ssBetween / float64(k-1)) / (ssWithin / float64(n-k))
	p := t.dist.FTestPValue(f, float64(k-1), float64(n-k))
	return f, p, nil
}

// ChiSquareIndependence computes the chi-square statistic and p-value for a
// contingency table.
func (t *Tester) ChiSquareIndependence(table [][]int) (float64, float64, error) {
	rows := len(table)
	cols := colCount(table)
	if rows < 2 || cols < 2 {
		return 0, 1, core.ErrInsufficientGroups
	}

	total := 0
	rowTotals := make([]int, rows)
	colTotals := make([]int, cols)
	for i := range table {
		for j := range table[i] {
			rowTotals[i] += table[i][j]
			colTotals[j] += table[i][j]
			total += table[i][j]
		}
	}
	if total == 0 {
		return 0, 1, core.ErrInsufficientGroups
	}

	chi2 := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			expected := float64(rowTotals[i]*colTotals[j]) / float64(total)
			if expected > 0 {
				observed := float64(table[i][j])
				chi2 += (observed - expected) * (observed - expected) / expected
			}
		}
	}

	dof := (rows - 1) * (cols - 1)
	p := t.dist.ChiSquarePValue(chi2, dof)
	return chi2, p, nil
}

func nonEmptyGroups(groups [][]float64) [][]float64 {
	var out [][]float64
	for _, g := range groups {
		if len(g) > 0 {
			out = append(out, g)
		}
	}
	return out
}

func colCount(table [][]int) int {
	if len(table) == 0 {
		return 0
	}
	return len(table[0])
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
