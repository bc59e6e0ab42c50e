package survey

import "strings"

// Verdict is the closed set of validation decisions. Unknown covers any
// collaborator answer that is neither accept nor reject, so the narrative
// state machine stays total over its input domain.
type Verdict int

const (
	VerdictAccept Verdict = iota
	VerdictReject
	VerdictUnknown
)

// String returns the verdict token.
func (v Verdict) String() string {
	switch v {
	case VerdictAccept:
		return "accept"
	case VerdictReject:
		return "reject"
	default:
		return "unknown"
	}
}

// ValidationOutcome is a parsed classification answer: accept, or reject with
// a reason, or unknown.
type ValidationOutcome struct {
	Verdict Verdict
	Reason  string
}

// ParseValidationOutcome interprets a raw classifier answer. Accepted shapes
// are "accept" and "reject: <reason>" (case-insensitive, reason optional);
// anything else is Unknown.
func ParseValidationOutcome(raw string) ValidationOutcome {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "accept"):
		return ValidationOutcome{Verdict: VerdictAccept}
	case strings.HasPrefix(lower, "reject"):
		reason := strings.TrimSpace(s[len("reject"):])
		reason = strings.TrimSpace(strings.TrimPrefix(reason, ":"))
		return ValidationOutcome{Verdict: VerdictReject, Reason: reason}
	default:
		return ValidationOutcome{Verdict: VerdictUnknown, Reason: s}
	}
}
