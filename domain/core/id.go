package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RunID    ID
	UploadID ID
)

func (id RunID) String() string    { return ID(id).String() }
func (id UploadID) String() string { return ID(id).String() }

// NewRunID creates a new run identifier.
func NewRunID() RunID { return RunID(NewID()) }

// NewUploadID creates a new upload identifier.
func NewUploadID() UploadID { return UploadID(NewID()) }

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}

// QuestionKey identifies one question block of a statistics sheet ("A2",
// "B5_2"). Separators used in the source spreadsheets ("-", ".") collapse to
// underscores so that "B5-2" and "B5_2" address the same question.
type QuestionKey string

// String returns the key as a plain string.
func (k QuestionKey) String() string { return string(k) }

// ParseQuestionKey normalizes and parses a question key.
func ParseQuestionKey(s string) (QuestionKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("question key cannot be empty")
	}
	return QuestionKey(NormalizeKey(s)), nil
}

// NormalizeKey rewrites key separators to underscores.
func NormalizeKey(s string) string {
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, ".", "_")
	return strings.TrimSpace(s)
}
