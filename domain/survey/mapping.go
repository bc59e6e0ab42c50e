package survey

import (
	"fmt"
	"strconv"
	"strings"
)

// MappingSpec is a structured transformation produced by the variable-mapping
// stage: per raw variable, which codes map to which category labels. It is
// interpreted by Apply rather than executed, so generated text never becomes
// running code.
type MappingSpec struct {
	Rules []MappingRule `json:"rules"`
}

// MappingRule maps one raw source column onto one output column. Cases match
// exact code values; Ranges match parsed numeric values (inclusive bounds);
// Default applies when nothing matched and is non-empty.
type MappingRule struct {
	Target  string            `json:"target"`
	Source  string            `json:"source"`
	Cases   map[string]string `json:"cases,omitempty"`
	Ranges  []RangeRule       `json:"ranges,omitempty"`
	Default string            `json:"default,omitempty"`
}

// RangeRule labels a numeric interval [Min, Max].
type RangeRule struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Label string  `json:"label"`
}

// Validate checks structural soundness of the spec: every rule needs a
// target, a source, and at least one way to produce a label.
func (s *MappingSpec) Validate() error {
	if len(s.Rules) == 0 {
		return fmt.Errorf("mapping spec has no rules")
	}
	for i, r := range s.Rules {
		if strings.TrimSpace(r.Target) == "" {
			return fmt.Errorf("rule %d: missing target column", i)
		}
		if strings.TrimSpace(r.Source) == "" {
			return fmt.Errorf("rule %d: missing source column", i)
		}
		if len(r.Cases) == 0 && len(r.Ranges) == 0 && r.Default == "" {
			return fmt.Errorf("rule %d: no cases, ranges, or default", i)
		}
	}
	return nil
}

// HasTarget reports whether any rule writes the named output column.
func (s *MappingSpec) HasTarget(name string) bool {
	for _, r := range s.Rules {
		if r.Target == name {
			return true
		}
	}
	return false
}

// Targets lists the distinct output columns the spec writes, in rule order.
func (s *MappingSpec) Targets() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range s.Rules {
		if !seen[r.Target] {
			seen[r.Target] = true
			out = append(out, r.Target)
		}
	}
	return out
}

// MappingReport summarizes one evaluation of a spec against a raw table.
type MappingReport struct {
	RowCount       int
	MappedCount    map[string]int // target column → rows assigned a label
	MissingSources []string       // rules whose source column was absent
}

// CoverageBar is the minimum average target coverage the mapping critic
// accepts.
const CoverageBar = 0.80

// Coverage returns the fraction of rows with a non-empty value in the named
// target column.
func (r *MappingReport) Coverage(target string) float64 {
	if r.RowCount == 0 {
		return 0
	}
	return float64(r.MappedCount[target]) / float64(r.RowCount)
}

// AverageCoverage averages per-target coverage over the named columns.
func (r *MappingReport) AverageCoverage(targets []string) float64 {
	if len(targets) == 0 {
		return 0
	}
	total := 0.0
	for _, t := range targets {
		total += r.Coverage(t)
	}
	return total / float64(len(targets))
}

// Sufficient reports whether average coverage over the named targets clears
// the critic's bar.
func (r *MappingReport) Sufficient(targets []string) bool {
	return r.AverageCoverage(targets) >= CoverageBar
}

// Apply evaluates the spec against a raw table, adding target columns and
// filling them row by row. Rules for absent source columns are recorded and
// skipped; evaluation itself never fails.
func (s *MappingSpec) Apply(raw *RawTable) *MappingReport {
	report := &MappingReport{
		RowCount:    len(raw.Rows),
		MappedCount: make(map[string]int),
	}
	targets := make(map[string]bool)
	for _, rule := range s.Rules {
		if !raw.HasColumn(rule.Source) {
			report.MissingSources = append(report.MissingSources, rule.Source)
			continue
		}
		raw.AddColumn(rule.Target)
		targets[rule.Target] = true
		for _, row := range raw.Rows {
			label, ok := rule.apply(row[rule.Source])
			if !ok {
				continue
			}
			// Later rules may refine earlier ones but never blank a value.
			if label != "" {
				row[rule.Target] = label
			}
		}
	}
	for target := range targets {
		for _, row := range raw.Rows {
			if strings.TrimSpace(row[target]) != "" {
				report.MappedCount[target]++
			}
		}
	}
	return report
}

func (r MappingRule) apply(rawValue string) (string, bool) {
	v := strings.TrimSpace(rawValue)
	if v == "" {
		return "", false
	}
	if label, ok := r.Cases[v]; ok {
		return label, true
	}
	if num, err := strconv.ParseFloat(v, 64); err == nil {
		for _, rng := range r.Ranges {
			if num >= rng.Min && num <= rng.Max {
				return rng.Label, true
			}
		}
	}
	if r.Default != "" {
		return r.Default, true
	}
	return "", false
}
