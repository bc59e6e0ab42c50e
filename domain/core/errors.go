package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Parse errors (fatal for the file they occur in)
	ErrSheetNotFound   = errors.New("sheet not found")
	ErrMalformedSheet  = errors.New("malformed sheet")
	ErrNoQuestionBlock = errors.New("no question blocks detected")

	// Lookup errors
	ErrQuestionNotFound = errors.New("question key not found")
	ErrColumnNotFound   = errors.New("column not found")
	ErrOverallRowAbsent = errors.New("overall row not present in table")

	// Mapping errors (absorbed after one repair attempt)
	ErrMappingDegraded = errors.New("mapping degraded: required category columns absent")

	// Per-category test errors (absorbed per category)
	ErrInsufficientGroups = errors.New("insufficient groups for test")

	// External collaborator errors
	ErrGenerationFailed     = errors.New("text generation failed")
	ErrClassificationFailed = errors.New("classification failed")
)

// NewSheetNotFoundError reports a missing named sheet in an uploaded workbook.
func NewSheetNotFoundError(sheet string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSheetNotFound, sheet, err)
	}
	return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
}

// NewQuestionNotFoundError reports a key that is not present in a parsed table set.
func NewQuestionNotFoundError(key QuestionKey) error {
	return fmt.Errorf("%w: %s", ErrQuestionNotFound, key)
}

// IsParseError reports whether err is fatal for the file being parsed.
func IsParseError(err error) bool {
	return errors.Is(err, ErrSheetNotFound) ||
		errors.Is(err, ErrMalformedSheet) ||
		errors.Is(err, ErrNoQuestionBlock)
}
