package ports

import (
	"context"

	"surveyscribe/domain/survey"
)

// TextGenerator is the opaque text-generation collaborator. It takes a fully
// rendered prompt and returns text; prompt construction and answer handling
// stay with the caller.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Classifier is the opaque classification collaborator. Raw answers are
// parsed into the closed ValidationOutcome variant before they reach any
// state machine, so an off-contract answer surfaces as Unknown rather than
// an error.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (survey.ValidationOutcome, error)
}
