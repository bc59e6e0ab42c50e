package survey

import (
	"strings"
	"testing"

	"surveyscribe/domain/core"
)

func tableFixture() *CategorizedTable {
	return &CategorizedTable{
		Columns: []string{ColMajorCategory, ColMinorCategory, ColSampleSize, "만족", "불만족"},
		Rows: [][]Cell{
			{TextCell("전 체"), TextCell(""), NumericCell(1000), NumericCell(60.5), NumericCell(39.5)},
			{TextCell("성별"), TextCell("남자"), NumericCell(492), NumericCell(58.1), NumericCell(41.9)},
			{TextCell("성별"), TextCell("여자"), NumericCell(508), NumericCell(62.8), NumericCell(37.2)},
		},
	}
}

func TestValueColumns(t *testing.T) {
	got := tableFixture().ValueColumns()
	want := []string{"만족", "불만족"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("ValueColumns = %v, want %v", got, want)
	}
}

func TestOverallRow(t *testing.T) {
	tbl := tableFixture()
	row, err := tbl.OverallRow()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row != 0 {
		t.Errorf("OverallRow = %d, want 0", row)
	}

	noOverall := &CategorizedTable{
		Columns: []string{ColMajorCategory, "값"},
		Rows:    [][]Cell{{TextCell("성별"), NumericCell(1)}},
	}
	if _, err := noOverall.OverallRow(); err == nil {
		t.Error("expected error when overall row absent")
	}
}

func TestRowLabels(t *testing.T) {
	labels := tableFixture().RowLabels()
	want := []string{"전 체", "성별_남자", "성별_여자"}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("label %d = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestLinearize(t *testing.T) {
	s := tableFixture().Linearize()
	if !strings.Contains(s, "major_category: 전 체") {
		t.Errorf("missing overall block: %s", s)
	}
	if !strings.Contains(s, "만족: 58.1") {
		t.Errorf("missing value pair: %s", s)
	}
	if strings.Count(s, " | ") != 2 {
		t.Errorf("expected 3 row blocks, got: %s", s)
	}
}

func TestCellMissing(t *testing.T) {
	if !TextCell("  ").Missing() {
		t.Error("blank text cell should be missing")
	}
	if NumericCell(0).Missing() {
		t.Error("numeric zero is a value, not missing")
	}
}

func TestSurveyTableSetRecord(t *testing.T) {
	set := &SurveyTableSet{
		Records: map[core.QuestionKey]QuestionRecord{
			"A2": {QuestionText: "A2. 관심도", Table: tableFixture()},
		},
		Keys: []core.QuestionKey{"A2"},
	}

	rec, err := set.Record("A2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.QuestionText != "A2. 관심도" {
		t.Errorf("QuestionText = %q", rec.QuestionText)
	}

	if _, err := set.Record("Z9"); err == nil {
		t.Error("expected error for unknown key")
	}
	if set.Len() != 1 {
		t.Errorf("Len = %d, want 1", set.Len())
	}
}
