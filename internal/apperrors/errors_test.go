// Package apperrors tests verify the custom error types (ErrNotFound,
// ErrInvalidMode, ErrInvalidLimit, ErrCapacityExceeded,
// ErrSerializationFailure), their Error() messages, Is() matching
// semantics, constructor helpers, and compatibility with errors.Is()
// including through fmt.Errorf wrapping.
package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

// ---------------------------------------------------------------------------
// ErrNotFound
// ---------------------------------------------------------------------------

func TestErrNotFound_Error(t *testing.T) {
	t.Parallel()
	err := &ErrNotFound{ID: "abc"}
	want := `rattlecache: identifier "abc" not found`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrNotFound_Is(t *testing.T) {
	t.Parallel()
	err := NewNotFoundError("key1")

	if !errors.Is(err, &ErrNotFound{}) {
		t.Error("expected errors.Is to match *ErrNotFound regardless of field values")
	}
	if errors.Is(err, &ErrInvalidMode{}) {
		t.Error("expected errors.Is not to match *ErrInvalidMode")
	}

	wrapped := fmt.Errorf("get failed: %w", err)
	if !errors.Is(wrapped, &ErrNotFound{}) {
		t.Error("expected errors.Is to match *ErrNotFound through wrapping")
	}
}

// ---------------------------------------------------------------------------
// ErrInvalidMode
// ---------------------------------------------------------------------------

func TestErrInvalidMode_Error(t *testing.T) {
	t.Parallel()
	err := NewInvalidModeError("FOO")
	want := `rattlecache: "FOO" is not a valid eviction mode`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrInvalidMode_Is(t *testing.T) {
	t.Parallel()
	err := NewInvalidModeError("FOO")
	if !errors.Is(err, &ErrInvalidMode{}) {
		t.Error("expected errors.Is to match *ErrInvalidMode")
	}
	if errors.Is(err, &ErrNotFound{}) {
		t.Error("expected errors.Is not to match *ErrNotFound")
	}
}

// ---------------------------------------------------------------------------
// ErrInvalidLimit
// ---------------------------------------------------------------------------

func TestErrInvalidLimit_Error(t *testing.T) {
	t.Parallel()
	err := NewInvalidLimitError("memory_limit", -1)
	want := "rattlecache: invalid memory_limit: -1"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrInvalidLimit_Is(t *testing.T) {
	t.Parallel()
	err := NewInvalidLimitError("serialize_limit", -5)
	if !errors.Is(err, &ErrInvalidLimit{}) {
		t.Error("expected errors.Is to match *ErrInvalidLimit")
	}
}

// ---------------------------------------------------------------------------
// ErrCapacityExceeded
// ---------------------------------------------------------------------------

func TestErrCapacityExceeded_Error(t *testing.T) {
	t.Parallel()
	err := NewCapacityExceededError("huge", 10000, 10)
	want := `rattlecache: value for "huge" needs 10000 bytes, exceeding the 10 byte limit`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrCapacityExceeded_Is(t *testing.T) {
	t.Parallel()
	err := NewCapacityExceededError("huge", 10000, 10)
	if !errors.Is(err, &ErrCapacityExceeded{}) {
		t.Error("expected errors.Is to match *ErrCapacityExceeded")
	}

	wrapped := fmt.Errorf("put failed: %w", err)
	if !errors.Is(wrapped, &ErrCapacityExceeded{}) {
		t.Error("expected errors.Is to match *ErrCapacityExceeded through wrapping")
	}
}

// ---------------------------------------------------------------------------
// ErrSerializationFailure
// ---------------------------------------------------------------------------

func TestErrSerializationFailure_Error(t *testing.T) {
	t.Parallel()
	inner := errors.New("gob: type not registered for interface: chan int")
	err := NewSerializationFailureError("x", "encode", inner)
	want := `rattlecache: failed to encode value for "x": gob: type not registered for interface: chan int`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrSerializationFailure_Unwrap(t *testing.T) {
	t.Parallel()
	inner := errors.New("boom")
	err := NewSerializationFailureError("x", "decode", inner)
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to reach the wrapped codec error via Unwrap")
	}
}

func TestErrSerializationFailure_Is(t *testing.T) {
	t.Parallel()
	err := NewSerializationFailureError("x", "decode", errors.New("boom"))
	if !errors.Is(err, &ErrSerializationFailure{}) {
		t.Error("expected errors.Is to match *ErrSerializationFailure")
	}
}

// ---------------------------------------------------------------------------
// Cross-type isolation: no error type matches any other type
// ---------------------------------------------------------------------------

func TestErrorTypes_CrossTypeIsolation(t *testing.T) {
	t.Parallel()
	errs := []error{
		&ErrNotFound{ID: "a"},
		&ErrInvalidMode{Mode: "x"},
		&ErrInvalidLimit{Field: "memory_limit", Value: -1},
		&ErrCapacityExceeded{ID: "a", SizeBytes: 1, LimitBytes: 1},
		&ErrSerializationFailure{ID: "a", Op: "encode", Err: errors.New("x")},
	}

	for i, a := range errs {
		for j, b := range errs {
			if i == j {
				continue
			}
			if errors.Is(a, b) {
				t.Errorf("expected errors.Is(%T, %T) to be false", a, b)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// All types satisfy the error interface
// ---------------------------------------------------------------------------

func TestErrorTypes_ImplementErrorInterface(t *testing.T) {
	t.Parallel()
	var _ error = &ErrNotFound{}
	var _ error = &ErrInvalidMode{}
	var _ error = &ErrInvalidLimit{}
	var _ error = &ErrCapacityExceeded{}
	var _ error = &ErrSerializationFailure{}
}
