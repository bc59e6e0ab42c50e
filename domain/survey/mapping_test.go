package survey

import (
	"testing"
)

func rawFixture() *RawTable {
	return &RawTable{
		Headers: []string{"ID", "SQ1", "AGE"},
		Rows: []RawRow{
			{"ID": "1", "SQ1": "1", "AGE": "24"},
			{"ID": "2", "SQ1": "2", "AGE": "47"},
			{"ID": "3", "SQ1": "1", "AGE": "31"},
			{"ID": "4", "SQ1": "9", "AGE": ""},
		},
	}
}

func TestMappingSpecApplyCases(t *testing.T) {
	raw := rawFixture()
	spec := MappingSpec{Rules: []MappingRule{{
		Target: "DEMO1",
		Source: "SQ1",
		Cases:  map[string]string{"1": "남자", "2": "여자"},
	}}}

	report := spec.Apply(raw)

	if !raw.HasColumn("DEMO1") {
		t.Fatal("target column not added")
	}
	got := raw.Column("DEMO1")
	want := []string{"남자", "여자", "남자", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %q, want %q", i, got[i], want[i])
		}
	}
	if report.MappedCount["DEMO1"] != 3 {
		t.Errorf("MappedCount = %d, want 3", report.MappedCount["DEMO1"])
	}
	if report.Coverage("DEMO1") != 0.75 {
		t.Errorf("Coverage = %v, want 0.75", report.Coverage("DEMO1"))
	}
}

func TestMappingSpecApplyRangesAndDefault(t *testing.T) {
	raw := rawFixture()
	spec := MappingSpec{Rules: []MappingRule{{
		Target: "DEMO2",
		Source: "AGE",
		Ranges: []RangeRule{
			{Min: 0, Max: 29, Label: "20대 이하"},
			{Min: 30, Max: 39, Label: "30대"},
		},
		Default: "40대 이상",
	}}}

	spec.Apply(raw)

	got := raw.Column("DEMO2")
	want := []string{"20대 이하", "40대 이상", "30대", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMappingSpecApplyRangeBoundsInclusive(t *testing.T) {
	raw := &RawTable{
		Headers: []string{"AGE"},
		Rows:    []RawRow{{"AGE": "29"}, {"AGE": "30"}},
	}
	spec := MappingSpec{Rules: []MappingRule{{
		Target: "BAND",
		Source: "AGE",
		Ranges: []RangeRule{{Min: 20, Max: 29, Label: "20대"}, {Min: 30, Max: 39, Label: "30대"}},
	}}}

	spec.Apply(raw)

	if got := raw.Column("BAND"); got[0] != "20대" || got[1] != "30대" {
		t.Errorf("boundary mapping wrong: %v", got)
	}
}

func TestMappingSpecApplyMissingSource(t *testing.T) {
	raw := rawFixture()
	spec := MappingSpec{Rules: []MappingRule{
		{Target: "DEMO1", Source: "SQ1", Cases: map[string]string{"1": "남자", "2": "여자"}},
		{Target: "DEMO9", Source: "NOPE", Cases: map[string]string{"1": "x"}},
	}}

	report := spec.Apply(raw)

	if len(report.MissingSources) != 1 || report.MissingSources[0] != "NOPE" {
		t.Errorf("MissingSources = %v", report.MissingSources)
	}
	if raw.HasColumn("DEMO9") {
		t.Error("column for missing source should not be added")
	}
}

func TestMappingReportNoDoubleCountForSharedTarget(t *testing.T) {
	raw := rawFixture()
	spec := MappingSpec{Rules: []MappingRule{
		{Target: "DEMO1", Source: "SQ1", Cases: map[string]string{"1": "남자"}},
		{Target: "DEMO1", Source: "SQ1", Cases: map[string]string{"2": "여자"}},
	}}

	report := spec.Apply(raw)

	if report.MappedCount["DEMO1"] != 3 {
		t.Errorf("MappedCount = %d, want 3 (one per mapped row)", report.MappedCount["DEMO1"])
	}
}

func TestMappingSpecValidate(t *testing.T) {
	bad := MappingSpec{Rules: []MappingRule{{Target: "DEMO1"}}}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for rule without source")
	}
	empty := MappingSpec{}
	if err := empty.Validate(); err == nil {
		t.Error("expected error for empty spec")
	}
}

func TestMappingReportSufficient(t *testing.T) {
	report := &MappingReport{RowCount: 10, MappedCount: map[string]int{"A": 9, "B": 7}}
	if !report.Sufficient([]string{"A", "B"}) {
		t.Error("80% average should clear the bar")
	}
	if report.Sufficient([]string{"B"}) {
		t.Error("70% should not clear the bar")
	}
}
