package survey

import "testing"

func TestGroupByDeterministicOrder(t *testing.T) {
	raw := &RawTable{
		Headers: []string{"G", "V"},
		Rows: []RawRow{
			{"G": "b", "V": "2"},
			{"G": "a", "V": "1"},
			{"G": "b", "V": "4"},
			{"G": "a", "V": "3"},
			{"G": "", "V": "9"},
			{"G": "a", "V": "not-a-number"},
		},
	}

	groups := raw.GroupBy("G", "V")
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	// "a" sorts before "b"; the blank group and the unparsable value drop out.
	if len(groups[0]) != 2 || groups[0][0] != 1 || groups[0][1] != 3 {
		t.Errorf("group a = %v", groups[0])
	}
	if len(groups[1]) != 2 || groups[1][0] != 2 || groups[1][1] != 4 {
		t.Errorf("group b = %v", groups[1])
	}
}

func TestCrosstab(t *testing.T) {
	raw := &RawTable{
		Headers: []string{"G", "V"},
		Rows: []RawRow{
			{"G": "1", "V": "x"},
			{"G": "1", "V": "x"},
			{"G": "1", "V": "y"},
			{"G": "2", "V": "y"},
			{"G": "2", "V": ""},
		},
	}

	table := raw.Crosstab("G", "V")
	if len(table) != 2 || len(table[0]) != 2 {
		t.Fatalf("dims = %dx%d, want 2x2", len(table), len(table[0]))
	}
	if table[0][0] != 2 || table[0][1] != 1 || table[1][0] != 0 || table[1][1] != 1 {
		t.Errorf("crosstab = %v", table)
	}
}

func TestCrosstabDegenerateDimension(t *testing.T) {
	raw := &RawTable{
		Headers: []string{"G", "V"},
		Rows:    []RawRow{{"G": "1", "V": "x"}, {"G": "1", "V": "y"}},
	}
	table := raw.Crosstab("G", "V")
	if len(table) != 1 {
		t.Errorf("expected single row group, got %d", len(table))
	}
}

func TestNumericColumnMask(t *testing.T) {
	raw := &RawTable{
		Headers: []string{"V"},
		Rows:    []RawRow{{"V": "1.5"}, {"V": ""}, {"V": "abc"}},
	}
	values, ok := raw.NumericColumn("V")
	if !ok[0] || ok[1] || ok[2] {
		t.Errorf("mask = %v", ok)
	}
	if values[0] != 1.5 {
		t.Errorf("values = %v", values)
	}
}

func TestDemographicMapCodes(t *testing.T) {
	m := DemographicMap{"DEMO3": "지역", "DEMO1": "성별", "DEMO2": "연령"}
	codes := m.Codes()
	want := []string{"DEMO1", "DEMO2", "DEMO3"}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("codes = %v, want %v", codes, want)
		}
	}
}

func TestAddColumnIdempotent(t *testing.T) {
	raw := &RawTable{Headers: []string{"A"}}
	raw.AddColumn("B")
	raw.AddColumn("B")
	if len(raw.Headers) != 2 {
		t.Errorf("headers = %v", raw.Headers)
	}
}
