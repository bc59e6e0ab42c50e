package testkit

import (
	"context"
	"fmt"

	"surveyscribe/domain/survey"
	"surveyscribe/ports"
)

// ScriptedGenerator is a TextGenerator double that returns canned responses
// in call order. The last response repeats once the script runs out.
type ScriptedGenerator struct {
	Responses []string
	Err       error
	Prompts   []string
	calls     int
}

func (g *ScriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.Prompts = append(g.Prompts, prompt)
	if g.Err != nil {
		return "", g.Err
	}
	if len(g.Responses) == 0 {
		return "", fmt.Errorf("scripted generator has no responses")
	}
	idx := g.calls
	if idx >= len(g.Responses) {
		idx = len(g.Responses) - 1
	}
	g.calls++
	return g.Responses[idx], nil
}

// Calls returns how many prompts the generator has seen.
func (g *ScriptedGenerator) Calls() int { return g.calls }

// ScriptedClassifier is a Classifier double returning canned outcomes in
// call order.
type ScriptedClassifier struct {
	Outcomes []survey.ValidationOutcome
	Err      error
	Prompts  []string
	calls    int
}

func (c *ScriptedClassifier) Classify(ctx context.Context, prompt string) (survey.ValidationOutcome, error) {
	c.Prompts = append(c.Prompts, prompt)
	if c.Err != nil {
		return survey.ValidationOutcome{}, c.Err
	}
	if len(c.Outcomes) == 0 {
		c.calls++
		return survey.ValidationOutcome{Verdict: survey.VerdictAccept}, nil
	}
	idx := c.calls
	if idx >= len(c.Outcomes) {
		idx = len(c.Outcomes) - 1
	}
	c.calls++
	return c.Outcomes[idx], nil
}

// Calls returns how many prompts the classifier has seen.
func (c *ScriptedClassifier) Calls() int { return c.calls }

var (
	_ ports.TextGenerator = (*ScriptedGenerator)(nil)
	_ ports.Classifier    = (*ScriptedClassifier)(nil)
)
