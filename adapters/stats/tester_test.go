package stats

import (
	"math"
	"testing"

	"surveyscribe/domain/core"
	"surveyscribe/domain/survey"
	"surveyscribe/internal/testkit"
)

func approx(t *testing.T, got, want, tol float64, name string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %g, want %g (±%g)", name, got, want, tol)
	}
}

func TestTwoSampleTTestPooled(t *testing.T) {
	tester := NewTester()
	stat, p, err := tester.TwoSampleTTest([]float64{1, 2, 3}, []float64{4, 5, 6}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, math.Abs(stat), 3.674, 0.001, "t statistic")
	if p <= 0 || p >= 0.05 {
		t.Errorf("p = %g, want significant at 0.05", p)
	}
}

func TestTwoSampleTTestWelchDiffersFromPooled(t *testing.T) {
	tester := NewTester()
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{10, 30, 50, 70, 90}

	_, pPooled, err := tester.TwoSampleTTest(a, b, true)
	if err != nil {
		t.Fatalf("pooled: %v", err)
	}
	_, pWelch, err := tester.TwoSampleTTest(a, b, false)
	if err != nil {
		t.Fatalf("welch: %v", err)
	}
	if pPooled == pWelch {
		t.Errorf("pooled and Welch p-values identical (%g) for unequal variances", pPooled)
	}
}

func TestTwoSampleTTestDegenerate(t *testing.T) {
	tester := NewTester()
	if _, _, err := tester.TwoSampleTTest([]float64{1}, []float64{2, 3}, true); err == nil {
		t.Error("expected error for single-observation group")
	}
	if _, _, err := tester.TwoSampleTTest([]float64{2, 2}, []float64{2, 2}, true); err == nil {
		t.Error("expected error for zero variance in both groups")
	}
}

func TestLeveneEqualSpread(t *testing.T) {
	tester := NewTester()
	w, p, err := tester.Levene([][]float64{{1, 2, 3}, {4, 5, 6}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, w, 0, 1e-9, "W")
	approx(t, p, 1, 1e-9, "p")
}

func TestLeveneZeroWithin(t *testing.T) {
	tester := NewTester()
	w, p, err := tester.Levene([][]float64{{1, 3}, {2, 4}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != 0 || p != 1 {
		t.Errorf("W, p = %g, %g, want 0, 1", w, p)
	}
}

func TestLeveneDetectsUnequalSpread(t *testing.T) {
	tester := NewTester()
	narrow := []float64{5, 5, 5, 5, 5, 5, 5, 6, 5, 5}
	wide := []float64{-40, 50, -30, 40, -20, 30, -10, 20, 0, 10}
	w, p, err := tester.Levene([][]float64{narrow, wide})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w <= 0 {
		t.Errorf("W = %g, want positive", w)
	}
	if p > leveneAlpha {
		t.Errorf("p = %g, want below %g for clearly unequal spreads", p, leveneAlpha)
	}
}

func TestOneWayANOVA(t *testing.T) {
	tester := NewTester()
	f, p, err := tester.OneWayANOVA([][]float64{{1, 2, 3}, {2, 3, 4}, {8, 9, 10}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, f, 43, 0.01, "F")
	if p >= 0.001 {
		t.Errorf("p = %g, want < 0.001", p)
	}
}

func TestChiSquareIndependence(t *testing.T) {
	tester := NewTester()
	chi2, p, err := tester.ChiSquareIndependence([][]int{{10, 20}, {20, 10}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	approx(t, chi2, 6.667, 0.001, "chi2")
	if p >= 0.05 {
		t.Errorf("p = %g, want significant at 0.05", p)
	}

	if _, _, err := tester.ChiSquareIndependence([][]int{{10, 20}}); err == nil {
		t.Error("expected error for 1-row table")
	}
}

func TestRunFTFamily(t *testing.T) {
	raw := testkit.BalancedRawTable("Q1", []string{"1", "2", "3"}, []string{"4", "5", "6"})
	rows := NewTester().Run(survey.TestFamilyFT, raw, core.QuestionKey("Q1"), testkit.DemoMap())
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.CategoryLabel != "성별" {
		t.Errorf("CategoryLabel = %q, want 성별", row.CategoryLabel)
	}
	approx(t, row.Statistic, 3.674, 0.001, "Statistic")
	if !row.Significant() || row.Stars != "*" {
		t.Errorf("row = %+v, want significant with one star", row)
	}
}

func TestRunChiSquareFamily(t *testing.T) {
	groupA := []string{"1", "1", "1", "1", "1", "1", "1", "1", "2", "2"}
	groupB := []string{"2", "2", "2", "2", "2", "2", "2", "2", "1", "1"}
	raw := testkit.BalancedRawTable("Q2", groupA, groupB)
	rows := NewTester().Run(survey.TestFamilyChiSquare, raw, core.QuestionKey("Q2"), testkit.DemoMap())
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if !rows[0].Significant() {
		t.Errorf("row = %+v, want significant", rows[0])
	}
}

func TestRunSkipsDegenerateCrosstab(t *testing.T) {
	// Every respondent gives the same answer, so the response dimension has
	// one level and the category is skipped.
	raw := testkit.BalancedRawTable("Q3", []string{"1", "1", "1"}, []string{"1", "1", "1"})
	rows := NewTester().Run(survey.TestFamilyChiSquare, raw, core.QuestionKey("Q3"), testkit.DemoMap())
	if len(rows) != 0 {
		t.Errorf("rows = %v, want none", rows)
	}
}

func TestRunMissingQuestionColumn(t *testing.T) {
	raw := testkit.BalancedRawTable("Q1", []string{"1"}, []string{"2"})
	rows := NewTester().Run(survey.TestFamilyFT, raw, core.QuestionKey("Q9"), testkit.DemoMap())
	if len(rows) != 0 {
		t.Errorf("rows = %v, want none for absent column", rows)
	}
}
