package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distributions provides exact p-values for the test families used by the
// significance tester, replacing fragmented CDF approximations.
type Distributions struct{}

// NewDistributions creates a new distributions utility.
func NewDistributions() *Distributions {
	return &Distributions{}
}

// TTestPValue computes the two-tailed p-value for a t-statistic using
// Student's t-distribution. Fractional degrees of freedom are supported for
// the Welch-Satterthwaite case.
func (d *Distributions) TTestPValue(tStatistic, degreesOfFreedom float64) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: degreesOfFreedom}
	return 2 * (1 - tDist.CDF(math.Abs(tStatistic)))
}

// FTestPValue computes the upper-tail p-value for an F-statistic (Levene,
// one-way ANOVA).
func (d *Distributions) FTestPValue(fStatistic float64, df1, df2 float64) float64 {
	if df1 <= 0 || df2 <= 0 || math.IsNaN(fStatistic) {
		return 1.0
	}
	fDist := distuv.F{D1: df1, D2: df2}
	return 1 - fDist.CDF(fStatistic)
}

// ChiSquarePValue computes the upper-tail p-value for a chi-square statistic.
func (d *Distributions) ChiSquarePValue(chiSquare float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}
	chiDist := distuv.ChiSquared{K: float64(degreesOfFreedom)}
	return 1 - chiDist.CDF(chiSquare)
}
