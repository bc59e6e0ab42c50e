package llm

import (
	"context"
	"fmt"
	"strings"

	"surveyscribe/domain/core"
)

// GeneratorAdapter implements ports.TextGenerator over an LLMClient.
type GeneratorAdapter struct {
	config Config
	client LLMClient
}

// NewGeneratorAdapter creates a new LLM generator adapter
func NewGeneratorAdapter(config Config) (*GeneratorAdapter, error) {
	client, err := newLLMClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return &GeneratorAdapter{config: config, client: client}, nil
}

// NewGeneratorAdapterWithClient wires an explicit client, used by tests.
func NewGeneratorAdapterWithClient(config Config, client LLMClient) *GeneratorAdapter {
	return &GeneratorAdapter{config: config, client: client}
}

// Generate sends the prompt and returns the trimmed completion text.
func (g *GeneratorAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	response, err := g.client.ChatCompletion(ctx, g.config.Model, prompt, g.config.MaxTokens)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrGenerationFailed, err)
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return "", fmt.Errorf("%w: empty completion", core.ErrGenerationFailed)
	}
	return response, nil
}

// ExtractJSONBlock strips markdown code fences so a JSON payload embedded in
// a completion can be unmarshaled directly.
func ExtractJSONBlock(response string) string {
	jsonStr := response
	if strings.Contains(jsonStr, "```json") {
		start := strings.Index(jsonStr, "```json")
		end := strings.Index(jsonStr[start+7:], "```")
		if end > 0 {
			jsonStr = jsonStr[start+7 : start+7+end]
		}
	} else if strings.Contains(jsonStr, "```") {
		start := strings.Index(jsonStr, "```")
		end := strings.Index(jsonStr[start+3:], "```")
		if end > 0 {
			jsonStr = jsonStr[start+3 : start+3+end]
		}
	}
	return strings.TrimSpace(jsonStr)
}
