package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"surveyscribe/domain/survey"
	"surveyscribe/ports"
)

var numberedLine = regexp.MustCompile(`^\s*\d+[.)]\s*(.+)$`)

// HypothesisService proposes demographic-difference hypotheses for one
// question before analysis starts. The hypotheses steer the draft but are
// never presented as findings.
type HypothesisService struct {
	generator ports.TextGenerator
}

// NewHypothesisService creates a hypothesis service
func NewHypothesisService(generator ports.TextGenerator) *HypothesisService {
	return &HypothesisService{generator: generator}
}

// Suggest asks for exactly three hypotheses and parses the numbered list.
// An off-contract answer degrades to the raw lines rather than failing the
// run.
func (s *HypothesisService) Suggest(ctx context.Context, questionText, linearized string, lang survey.Language) ([]string, error) {
	response, err := s.generator.Generate(ctx, HypothesisPrompt(questionText, linearized, lang))
	if err != nil {
		return nil, fmt.Errorf("hypothesis suggestion failed: %w", err)
	}

	var hypotheses []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := numberedLine.FindStringSubmatch(line); m != nil {
			hypotheses = append(hypotheses, strings.TrimSpace(m[1]))
		} else {
			hypotheses = append(hypotheses, line)
		}
	}
	if len(hypotheses) == 0 {
		return nil, fmt.Errorf("hypothesis suggestion returned no usable lines")
	}
	if len(hypotheses) > 3 {
		hypotheses = hypotheses[:3]
	}
	return hypotheses, nil
}
