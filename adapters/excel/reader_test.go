package excel

import (
	"errors"
	"testing"

	"surveyscribe/domain/core"
	"surveyscribe/domain/survey"
	"surveyscribe/internal/testkit"
)

func TestParseStatisticsRowsLikertBlock(t *testing.T) {
	set, err := ParseStatisticsRows(testkit.StatisticsRows(testkit.LikertBlock("A1")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("Len = %d, want 1", set.Len())
	}

	rec, err := set.Record(core.QuestionKey("A1"))
	if err != nil {
		t.Fatalf("missing key A1: %v", err)
	}
	wantText := "A1. 전반적인 생활 만족도" + questionTextUnit
	if rec.QuestionText != wantText {
		t.Errorf("QuestionText = %q, want %q", rec.QuestionText, wantText)
	}

	tbl := rec.Table
	if tbl.Columns[0] != survey.ColMajorCategory || tbl.Columns[1] != survey.ColMinorCategory || tbl.Columns[2] != survey.ColSampleSize {
		t.Errorf("reserved columns = %v", tbl.Columns[:3])
	}
	if got := tbl.ColumnIndex("평균(5점척도)"); got < 0 {
		t.Errorf("merged header column missing from %v", tbl.Columns)
	}

	// Trailing 합계 row is dropped, leaving overall + two gender rows.
	if len(tbl.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(tbl.Rows))
	}
	if got := tbl.Value(2, survey.ColMajorCategory).Text; got != "성별" {
		t.Errorf("forward-filled major = %q, want 성별", got)
	}

	cell := tbl.Value(0, "매우 만족")
	if !cell.Numeric || cell.Number != 21.5 {
		t.Errorf("value cell = %+v, want numeric 21.5", cell)
	}
	if n := tbl.Value(1, survey.ColSampleSize); !n.Numeric || n.Number != 492 {
		t.Errorf("sample size = %+v, want numeric 492", n)
	}
}

func TestParseStatisticsRowsDuplicateHeadings(t *testing.T) {
	set, err := ParseStatisticsRows(testkit.StatisticsRows(
		testkit.ChoiceBlock("A1"),
		testkit.ChoiceBlock("A1"),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []core.QuestionKey{"A1", "A1_2"}
	if len(set.Keys) != 2 || set.Keys[0] != want[0] || set.Keys[1] != want[1] {
		t.Errorf("Keys = %v, want %v", set.Keys, want)
	}
}

func TestParseStatisticsRowsKeyNormalization(t *testing.T) {
	set, err := ParseStatisticsRows(testkit.StatisticsRows(testkit.ChoiceBlock("B5-2")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := set.Record(core.QuestionKey("B5_2")); err != nil {
		t.Errorf("key B5-2 not normalized to B5_2, have %v", set.Keys)
	}
}

func TestParseStatisticsRowsNormalizedKeyCollision(t *testing.T) {
	// "B5-2" and "B5.2" spell the same key after normalization, so the
	// second block must pick up a duplicate suffix like a literal repeat.
	set, err := ParseStatisticsRows(testkit.StatisticsRows(
		testkit.ChoiceBlock("B5-2"),
		testkit.ChoiceBlock("B5.2"),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []core.QuestionKey{"B5_2", "B5_2_2"}
	if len(set.Keys) != 2 || set.Keys[0] != want[0] || set.Keys[1] != want[1] {
		t.Errorf("Keys = %v, want %v", set.Keys, want)
	}
}

func TestParseStatisticsRowsNoHeadings(t *testing.T) {
	rows := [][]string{
		{"안내문"},
		{"전 체", "", "1000"},
	}
	_, err := ParseStatisticsRows(rows)
	if !errors.Is(err, core.ErrNoQuestionBlock) {
		t.Errorf("err = %v, want ErrNoQuestionBlock", err)
	}
}

func TestParseStatisticsRowsSkipsShortBlock(t *testing.T) {
	short := [][]string{{"C1. 본문이 없는 문항"}, {"헤더만"}}
	set, err := ParseStatisticsRows(testkit.StatisticsRows(short, testkit.ChoiceBlock("C2")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 1 || set.Keys[0] != core.QuestionKey("C2") {
		t.Errorf("Keys = %v, want [C2]", set.Keys)
	}
}

func TestParseStatisticsRowsKeepsTwoRowBlock(t *testing.T) {
	block := testkit.QuestionBlock(
		"D1. 두 행짜리 문항",
		[]string{"", "", "", "값"},
		[]string{"", "", "사례수", ""},
		[]string{"전 체", "", "100", "50.0"},
		[]string{"합계", "", "100", "100.0"},
	)
	set, err := ParseStatisticsRows(testkit.StatisticsRows(block))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, err := set.Record(core.QuestionKey("D1"))
	if err != nil {
		t.Fatalf("missing key D1: %v", err)
	}
	if len(rec.Table.Rows) != 2 {
		t.Errorf("rows = %d, want 2 (no trailing drop below three rows)", len(rec.Table.Rows))
	}
}

func TestParseStatisticsRowsNumericCoercion(t *testing.T) {
	block := testkit.QuestionBlock(
		"E1. 숫자 처리",
		[]string{"", "", "", "값"},
		[]string{"", "", "사례수", ""},
		[]string{"전 체", "", "1,234", "3.75"},
		[]string{"성별", "남자", "600", "-"},
		[]string{"", "여자", "634", "4.2"},
		[]string{"합계", "", "1,234", ""},
	)
	set, err := ParseStatisticsRows(testkit.StatisticsRows(block))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, err := set.Record(core.QuestionKey("E1"))
	if err != nil {
		t.Fatalf("missing key E1: %v", err)
	}
	tbl := rec.Table

	if n := tbl.Value(0, survey.ColSampleSize); !n.Numeric || n.Number != 1234 {
		t.Errorf("comma-separated sample size = %+v, want numeric 1234", n)
	}
	if v := tbl.Value(0, "값"); !v.Numeric || v.Number != 3.8 {
		t.Errorf("value = %+v, want rounded 3.8", v)
	}
	if v := tbl.Value(1, "값"); !v.Missing() {
		t.Errorf("non-numeric cell in numeric column = %+v, want missing", v)
	}
}

func TestTableParserMissingFile(t *testing.T) {
	if _, err := NewTableParser("no-such-workbook.xlsx").Parse(); err == nil {
		t.Error("expected error for missing file")
	}
}
