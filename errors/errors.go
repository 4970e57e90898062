package errors

import (
	"errors"
	"fmt"
)

// Category classifies error types for targeted handling and monitoring.
type Category string

const (
	CategoryDecode    Category = "decode"
	CategoryEncode    Category = "encode"
	CategoryConvert   Category = "convert"
	CategoryParam     Category = "param"
	CategoryConfig    Category = "config"
	CategoryBench     Category = "bench"
	CategoryTransient Category = "transient"
	CategoryInput     Category = "input"
)

// CodecError is the structured error type used throughout the module.
type CodecError struct {
	Category  Category
	Op        string // operation name
	Err       error
	Retryable bool
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

// New creates a non-retryable CodecError.
func New(category Category, op string, err error) *CodecError {
	return &CodecError{Category: category, Op: op, Err: err}
}

// Transient creates a retryable CodecError.
func Transient(op string, err error) *CodecError {
	return &CodecError{Category: CategoryTransient, Op: op, Err: err, Retryable: true}
}

// Wrap wraps an existing error with context.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(category, op, err)
}

// IsRetryable reports whether err represents a transient failure.
func IsRetryable(err error) bool {
	var ce *CodecError
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	return false
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var ce *CodecError
	if errors.As(err, &ce) {
		return ce.Category == cat
	}
	return false
}

// Sentinel errors for common failure modes.
var (
	ErrUnknownParameter   = errors.New("unknown codec parameter")
	ErrMalformedParameter = errors.New("malformed codec parameter")
	ErrUnsupportedFormat  = errors.New("unsupported image format")
	ErrInvalidDimensions  = errors.New("invalid dimensions")
	ErrEmptyInput         = errors.New("empty input")
	ErrNoBackend          = errors.New("no codec backend configured")
	ErrWorkerPoolFull     = errors.New("worker pool queue full")
)
