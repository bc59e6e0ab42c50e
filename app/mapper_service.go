package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"surveyscribe/adapters/llm"
	"surveyscribe/domain/survey"
	"surveyscribe/internal"
	"surveyscribe/ports"
)

const mappingSampleRows = 3

// MapperService derives the demographic grouping columns the significance
// tests need from the raw response sheet. Four staged LLM calls produce an
// interpreted rule set, a structured critic reviews the applied result, and
// one repair attempt is allowed before the run degrades.
type MapperService struct {
	generator ports.TextGenerator
	logger    *internal.Logger
}

// MappingResult is what the mapper hands back to the pipeline.
type MappingResult struct {
	Spec     survey.MappingSpec
	Report   survey.MappingReport
	Critique survey.MappingCritique
	Degraded bool
}

// NewMapperService creates a mapper service
func NewMapperService(generator ports.TextGenerator, logger *internal.Logger) *MapperService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &MapperService{generator: generator, logger: logger}
}

// BuildMapping runs the staged flow against the raw data sheet. The summary
// table supplies the major/minor label taxonomy the generated rules must
// land in. Rules are interpreted data, never executed code; a rule set the
// critic still rejects after one repair is kept but flagged degraded, so
// downstream stages can proceed on whatever coverage was achieved.
func (s *MapperService) BuildMapping(ctx context.Context, table *survey.CategorizedTable, raw *survey.RawTable, demo survey.DemographicMap, lang survey.Language) (*MappingResult, error) {
	codes := demo.Codes()
	labels := make([]string, 0, len(codes))
	for _, code := range codes {
		labels = append(labels, demo[code])
	}
	var majors, minors []string
	if table != nil {
		majors = table.MajorCategories()
		minors = table.MinorCategories()
	}

	inspection, err := s.generator.Generate(ctx, MappingInspectPrompt(raw.Headers, sampleRows(raw, mappingSampleRows), codes, majors, minors, lang))
	if err != nil {
		return nil, fmt.Errorf("mapping inspection failed: %w", err)
	}

	plan, err := s.generator.Generate(ctx, MappingPlanPrompt(inspection, codes, labels, majors, minors, lang))
	if err != nil {
		return nil, fmt.Errorf("mapping planning failed: %w", err)
	}

	rulesJSON, err := s.generator.Generate(ctx, MappingRulesPrompt(plan, majors, minors, lang))
	if err != nil {
		return nil, fmt.Errorf("mapping rule writing failed: %w", err)
	}

	reviewedJSON, err := s.generator.Generate(ctx, MappingReviewPrompt(rulesJSON, raw.Headers, lang))
	if err != nil {
		return nil, fmt.Errorf("mapping rule review failed: %w", err)
	}

	spec, err := parseMappingSpec(reviewedJSON)
	if err != nil {
		// The unreviewed rules are the only other candidate worth trying.
		s.logger.Warn("reviewed mapping rules unparseable, falling back to pre-review rules: %v", err)
		spec, err = parseMappingSpec(rulesJSON)
		if err != nil {
			return nil, fmt.Errorf("mapping rules unparseable: %w", err)
		}
	}

	report := spec.Apply(raw)
	critique, err := s.critique(ctx, spec, report, codes, lang)
	if err != nil {
		return nil, err
	}
	if critique.Accepted() && report.Sufficient(spec.Targets()) {
		return &MappingResult{Spec: spec, Report: *report, Critique: critique}, nil
	}

	s.logger.Warn("mapping rejected (score %d), attempting repair: %s", critique.Score, strings.Join(critique.Reasons, "; "))
	repairedJSON, err := s.generator.Generate(ctx, MappingRepairPrompt(mustMarshalSpec(spec), critique, raw.Headers, lang))
	if err != nil {
		return nil, fmt.Errorf("mapping repair failed: %w", err)
	}
	repaired, err := parseMappingSpec(repairedJSON)
	if err != nil {
		s.logger.Warn("repaired mapping rules unparseable, keeping rejected rules as degraded: %v", err)
		return &MappingResult{Spec: spec, Report: *report, Critique: critique, Degraded: true}, nil
	}

	repairedReport := repaired.Apply(raw)
	repairedCritique, err := s.critique(ctx, repaired, repairedReport, codes, lang)
	if err != nil {
		return nil, err
	}
	if repairedCritique.Accepted() && repairedReport.Sufficient(repaired.Targets()) {
		return &MappingResult{Spec: repaired, Report: *repairedReport, Critique: repairedCritique}, nil
	}

	// Single repair budget exhausted. Keep whichever rule set covered more.
	s.logger.Warn("mapping still rejected after repair, proceeding degraded")
	if repairedReport.AverageCoverage(repaired.Targets()) > report.AverageCoverage(spec.Targets()) {
		return &MappingResult{Spec: repaired, Report: *repairedReport, Critique: repairedCritique, Degraded: true}, nil
	}
	return &MappingResult{Spec: spec, Report: *report, Critique: critique, Degraded: true}, nil
}

func (s *MapperService) critique(ctx context.Context, spec survey.MappingSpec, report *survey.MappingReport, codes []string, lang survey.Language) (survey.MappingCritique, error) {
	response, err := s.generator.Generate(ctx, MappingCriticPrompt(mustMarshalSpec(spec), coverageSummary(spec, report), report.MissingSources, codes, lang))
	if err != nil {
		return survey.MappingCritique{}, fmt.Errorf("mapping critique failed: %w", err)
	}
	var critique survey.MappingCritique
	if err := json.Unmarshal([]byte(llm.ExtractJSONBlock(response)), &critique); err != nil {
		// Off-contract critic output counts as a rejection, not a crash.
		s.logger.Warn("mapping critique unparseable, treating as reject: %v", err)
		return survey.MappingCritique{Decision: "reject", Reasons: []string{"critique output unparseable"}}, nil
	}
	return critique, nil
}

func parseMappingSpec(response string) (survey.MappingSpec, error) {
	var spec survey.MappingSpec
	if err := json.Unmarshal([]byte(llm.ExtractJSONBlock(response)), &spec); err != nil {
		return survey.MappingSpec{}, fmt.Errorf("parse mapping rules: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return survey.MappingSpec{}, fmt.Errorf("invalid mapping rules: %w", err)
	}
	return spec, nil
}

func mustMarshalSpec(spec survey.MappingSpec) string {
	raw, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func coverageSummary(spec survey.MappingSpec, report *survey.MappingReport) string {
	targets := spec.Targets()
	parts := make([]string, 0, len(targets))
	for _, t := range targets {
		parts = append(parts, fmt.Sprintf("%s: %.0f%%", t, report.Coverage(t)*100))
	}
	return fmt.Sprintf("전체 %d행, 대상별 매핑률 [%s]", report.RowCount, strings.Join(parts, ", "))
}

func sampleRows(raw *survey.RawTable, n int) []string {
	if n > len(raw.Rows) {
		n = len(raw.Rows)
	}
	out := make([]string, 0, n)
	for _, row := range raw.Rows[:n] {
		parts := make([]string, 0, len(raw.Headers))
		for _, h := range raw.Headers {
			parts = append(parts, fmt.Sprintf("%s=%s", h, row[h]))
		}
		out = append(out, strings.Join(parts, "; "))
	}
	return out
}
