package survey

import "testing"

func TestParseValidationOutcome(t *testing.T) {
	cases := []struct {
		raw     string
		verdict Verdict
		reason  string
	}{
		{"accept", VerdictAccept, ""},
		{"Accept", VerdictAccept, ""},
		{"  ACCEPTED  ", VerdictAccept, ""},
		{"reject: 남자 비율 수치가 표와 다릅니다", VerdictReject, "남자 비율 수치가 표와 다릅니다"},
		{"REJECT:   spacing  ", VerdictReject, "spacing"},
		{"reject", VerdictReject, ""},
		{"maybe fine?", VerdictUnknown, "maybe fine?"},
		{"", VerdictUnknown, ""},
	}
	for _, tc := range cases {
		got := ParseValidationOutcome(tc.raw)
		if got.Verdict != tc.verdict {
			t.Errorf("ParseValidationOutcome(%q).Verdict = %v, want %v", tc.raw, got.Verdict, tc.verdict)
		}
		if got.Reason != tc.reason {
			t.Errorf("ParseValidationOutcome(%q).Reason = %q, want %q", tc.raw, got.Reason, tc.reason)
		}
	}
}

func TestVerdictString(t *testing.T) {
	if VerdictAccept.String() != "accept" || VerdictReject.String() != "reject" || VerdictUnknown.String() != "unknown" {
		t.Error("verdict tokens changed")
	}
}
