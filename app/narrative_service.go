package app

import (
	"context"
	"fmt"

	"surveyscribe/domain/survey"
	"surveyscribe/internal"
	"surveyscribe/ports"
)

// DefaultRejectLimit bounds how many times the checker may reject before the
// latest draft is finalized anyway.
const DefaultRejectLimit = 3

// NarrativeService turns one analyzed question into prose. A writer drafts,
// a checker validates against the linearized table, and rejected drafts are
// revised with the checker's feedback. The reject counter guarantees the
// loop terminates; a run that exhausts it ships its latest draft flagged as
// force-accepted.
type NarrativeService struct {
	generator   ports.TextGenerator
	classifier  ports.Classifier
	rejectLimit int
	logger      *internal.Logger
}

// NewNarrativeService creates a narrative service
func NewNarrativeService(generator ports.TextGenerator, classifier ports.Classifier, rejectLimit int, logger *internal.Logger) *NarrativeService {
	if rejectLimit <= 0 {
		rejectLimit = DefaultRejectLimit
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &NarrativeService{
		generator:   generator,
		classifier:  classifier,
		rejectLimit: rejectLimit,
		logger:      logger,
	}
}

// Compose runs the full drafting loop for the question held in state and
// fills in Draft, RevisionHistory, RejectCount, ForceAccepted and
// FinalReport. The revision and polish prompts only ever see the latest
// draft; older drafts stay in the history for the audit trail.
func (s *NarrativeService) Compose(ctx context.Context, state *survey.WorkflowState) error {
	draft, err := s.generator.Generate(ctx, DraftPrompt(
		state.SelectedQuestion, state.LinearizedTable, state.Anchor,
		state.SignificanceSummary, state.Hypotheses, state.Language))
	if err != nil {
		return fmt.Errorf("drafting failed: %w", err)
	}
	state.Draft = draft
	state.RevisionHistory = append(state.RevisionHistory, draft)

	for {
		outcome, err := s.classifier.Classify(ctx, ValidationPrompt(state.LatestDraft(), state.LinearizedTable, state.SignificanceSummary, state.Language))
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		if outcome.Verdict == survey.VerdictAccept {
			break
		}

		// Unknown verdicts take the reject branch: an unreadable check is
		// no evidence the draft is grounded.
		state.RejectCount++
		if state.RejectCount > s.rejectLimit {
			s.logger.Warn("question %s: reject limit reached, force-accepting latest draft", state.SelectedKey)
			state.ForceAccepted = true
			break
		}

		reason := outcome.Reason
		if reason == "" {
			reason = "검증 결과를 해석할 수 없습니다. 표에 근거한 내용만 남기도록 전면 재검토하세요."
		}
		s.logger.Info("question %s: draft rejected (%d/%d): %s", state.SelectedKey, state.RejectCount, s.rejectLimit, reason)

		revised, err := s.generator.Generate(ctx, RevisionPrompt(state.LatestDraft(), reason, state.LinearizedTable, state.Language))
		if err != nil {
			return fmt.Errorf("revision failed: %w", err)
		}
		state.RevisionHistory = append(state.RevisionHistory, revised)
	}

	polished, err := s.generator.Generate(ctx, PolishPrompt(state.LatestDraft(), state.Language))
	if err != nil {
		// A failed polish is cosmetic; the validated draft still stands.
		s.logger.Warn("question %s: polish failed, keeping validated draft: %v", state.SelectedKey, err)
		state.FinalReport = state.LatestDraft()
		return nil
	}
	state.FinalReport = polished
	return nil
}
