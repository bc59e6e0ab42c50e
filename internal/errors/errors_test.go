package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestWithCodeKeepsChain(t *testing.T) {
	sentinel := stderrors.New("sheet missing")
	err := WithCode(CodeParseError, fmt.Errorf("load workbook: %w", sentinel))

	if !stderrors.Is(err, sentinel) {
		t.Fatal("classified error lost the original chain")
	}
	if got := GetCode(err); got != CodeParseError {
		t.Fatalf("GetCode = %q, want %q", got, CodeParseError)
	}
}

func TestGetCodeThroughWrapping(t *testing.T) {
	inner := WithCode(CodeMappingError, stderrors.New("no source column"))
	outer := fmt.Errorf("analyze question: %w", inner)

	if got := GetCode(outer); got != CodeMappingError {
		t.Fatalf("GetCode = %q, want %q", got, CodeMappingError)
	}
	if !IsAppError(outer) {
		t.Fatal("IsAppError should see the wrapped AppError")
	}
}

func TestGetCodeDefault(t *testing.T) {
	if got := GetCode(stderrors.New("plain")); got != CodeInternalError {
		t.Fatalf("GetCode = %q, want %q", got, CodeInternalError)
	}
}

func TestWrapPreservesCode(t *testing.T) {
	err := Wrap(NotFound("upload"), "handle request")
	if got := GetCode(err); got != CodeNotFound {
		t.Fatalf("GetCode = %q, want %q", got, CodeNotFound)
	}
	if Wrap(nil, "noop") != nil {
		t.Fatal("Wrap(nil) should be nil")
	}
}

func TestConstructors(t *testing.T) {
	if got := GetCode(ConfigInvalid("missing key")); got != CodeConfigInvalid {
		t.Fatalf("GetCode = %q, want %q", got, CodeConfigInvalid)
	}
	if got := GetCode(InvalidInput("bad body")); got != CodeInvalidInput {
		t.Fatalf("GetCode = %q, want %q", got, CodeInvalidInput)
	}
	if msg := NotFound("run").Error(); msg != "run not found" {
		t.Fatalf("NotFound message = %q", msg)
	}
}
