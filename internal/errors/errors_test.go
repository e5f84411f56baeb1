package errors

import (
	"errors"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeParseError, "file could not be parsed")
		if err.Error() != "[PARSE_ERROR] file could not be parsed" {
			t.Errorf("expected [PARSE_ERROR] file could not be parsed, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeInternal, "internal failure")
		expected := "[INTERNAL_ERROR] internal failure: original error"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "invalid input")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeParseError) {
			t.Error("expected IsCode to return false for CodeParseError")
		}
	})

	t.Run("IsCodeWithWrapped", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeInternal, "internal failure")
		if !IsCode(err, CodeInternal) {
			t.Error("expected IsCode to return true for wrapped CodeInternal")
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := New(CodeParseError, "file could not be parsed")
		err = AddContext(err, CtxPath, "pkg/colors.py")
		if !IsCode(err, CodeParseError) {
			t.Error("expected code to survive AddContext")
		}
	})
}
