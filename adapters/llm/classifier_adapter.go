package llm

import (
	"context"
	"fmt"
	"strings"

	"surveyscribe/domain/core"
	"surveyscribe/domain/survey"
)

// ClassifierAdapter implements ports.Classifier over an LLMClient. It
// constrains the model with a short answer contract and parses the verdict;
// anything off-contract comes back as an unknown verdict rather than an
// error, so callers decide how strict to be.
type ClassifierAdapter struct {
	config Config
	client LLMClient
}

// NewClassifierAdapter creates a new LLM classifier adapter
func NewClassifierAdapter(config Config) (*ClassifierAdapter, error) {
	client, err := newLLMClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return &ClassifierAdapter{config: config, client: client}, nil
}

// NewClassifierAdapterWithClient wires an explicit client, used by tests.
func NewClassifierAdapterWithClient(config Config, client LLMClient) *ClassifierAdapter {
	return &ClassifierAdapter{config: config, client: client}
}

// Classify sends the prompt and parses the answer into a validation outcome.
func (c *ClassifierAdapter) Classify(ctx context.Context, prompt string) (survey.ValidationOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	response, err := c.client.ChatCompletion(ctx, c.config.Model, prompt, c.config.MaxTokens)
	if err != nil {
		return survey.ValidationOutcome{}, fmt.Errorf("%w: %v", core.ErrClassificationFailed, err)
	}
	return survey.ParseValidationOutcome(strings.TrimSpace(response)), nil
}
