package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "hapsite.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}
		file, exists := err.Context().GetString("file")
		if !exists || file != "hapsite.yaml" {
			t.Errorf("expected context file=hapsite.yaml, got %v", file)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		if !IsClassified(err) {
			t.Error("expected error to be classified")
		}
		if !HasCategory(err, CategoryConfig) {
			t.Error("expected error to have config category")
		}
		if err.CanRetry() {
			t.Error("expected config error to not be retryable")
		}
		if !err.IsFatal() {
			t.Error("expected config error to be fatal")
		}
	})

	t.Run("Wrapped in fmt.Errorf", func(t *testing.T) {
		inner := ContentError("required document missing").Build()
		wrapped := fmt.Errorf("render context: %w", inner)

		if !HasCategory(wrapped, CategoryContent) {
			t.Error("expected category to be found through the wrap chain")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("unclassified errors should default to internal")
		}
		if GetSeverity(errors.New("plain")) != SeverityError {
			t.Error("unclassified errors should default to error severity")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := WrapError(originalErr, CategoryFileSystem, "write failed").
		Warning().
		WithContext("path", "src/content/docs/protocol.md").
		Build()

	if !errors.Is(err, originalErr) {
		t.Error("expected cause to be reachable with errors.Is")
	}
	if err.Cause() != originalErr {
		t.Error("expected Cause to return the wrapped error")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("expected warning severity, got %s", err.Severity())
	}
	want := "[filesystem:warning] write failed: permission denied"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWithContextDoesNotMutateOriginal(t *testing.T) {
	base := NotFoundError("missing").WithContext("a", 1).Build()
	derived := base.WithContext("b", 2)

	if _, ok := base.Context().Get("b"); ok {
		t.Error("base error context was mutated")
	}
	if v, ok := derived.Context().Get("a"); !ok || v != 1 {
		t.Error("derived error lost base context")
	}
}

func TestIsMatchesCategoryAndMessage(t *testing.T) {
	a := ContentError("missing").WithContext("document", "protocol").Build()
	b := ContentError("missing").Build()
	c := RenderError("missing").Build()

	if !errors.Is(a, b) {
		t.Error("expected errors with same category and message to match")
	}
	if errors.Is(a, c) {
		t.Error("expected errors with different categories not to match")
	}
}

func TestErrorContextMerge(t *testing.T) {
	var nilCtx ErrorContext
	merged := nilCtx.Merge(ErrorContext{"k": "v"})
	if v, _ := merged.GetString("k"); v != "v" {
		t.Fatalf("merge into nil context lost value: %v", merged)
	}

	left := ErrorContext{"k": "left", "x": 1}
	right := ErrorContext{"k": "right"}
	out := left.Merge(right)
	if v, _ := out.GetString("k"); v != "right" {
		t.Errorf("expected right side to win, got %v", v)
	}
	if _, ok := out.Get("x"); !ok {
		t.Error("expected left-only key to survive merge")
	}
}
