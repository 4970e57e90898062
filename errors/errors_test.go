package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodecError(t *testing.T) {
	err := New(CategoryDecode, "legacy.decode", ErrEmptyInput)
	if !errors.Is(err, ErrEmptyInput) {
		t.Error("sentinel lost through wrapping")
	}
	if !IsCategory(err, CategoryDecode) {
		t.Error("category not reported")
	}
	if IsCategory(err, CategoryEncode) {
		t.Error("wrong category matched")
	}
	if IsRetryable(err) {
		t.Error("New produced a retryable error")
	}
	msg := err.Error()
	if msg != "[decode] legacy.decode: empty input" {
		t.Errorf("message: %q", msg)
	}
}

func TestTransient(t *testing.T) {
	err := Transient("pool.submit", ErrWorkerPoolFull)
	if !IsRetryable(err) {
		t.Error("transient error not retryable")
	}
	if !IsCategory(err, CategoryTransient) {
		t.Error("category not transient")
	}
	// Retryability survives another wrapping layer.
	wrapped := fmt.Errorf("outer: %w", err)
	if !IsRetryable(wrapped) {
		t.Error("retryability lost through fmt wrapping")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(CategoryBench, "op", nil) != nil {
		t.Error("Wrap(nil) must return nil")
	}
}

func TestNonCodecError(t *testing.T) {
	plain := errors.New("plain")
	if IsRetryable(plain) || IsCategory(plain, CategoryBench) {
		t.Error("plain error matched codec error predicates")
	}
}
