package perceptron

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks calls whose arguments violate the unit's contract.
var ErrInvalidInput = errors.New("invalid input")

// DimensionMismatchError reports an input vector whose length differs from
// the weight vector.
type DimensionMismatchError struct {
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("invalid input: expected %d features, got %d", e.Expected, e.Got)
}

func (e *DimensionMismatchError) Unwrap() error {
	return ErrInvalidInput
}

// LoadError reports a malformed or truncated model record. The unit the
// record was loaded into is left unchanged.
type LoadError struct {
	Path   string // empty when loading from a stream
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	msg := "invalid model"
	if e.Path != "" {
		msg += ": " + e.Path
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IOError reports a model file that could not be read or written.
type IOError struct {
	Path string
	Op   string // "read" or "write"
	Fix  string // Suggested fix, if known
	Err  error
}

func (e *IOError) Error() string {
	msg := fmt.Sprintf("cannot %s model %s: %v", e.Op, e.Path, e.Err)
	if e.Fix != "" {
		msg += "\n💡 Fix: " + e.Fix
	}
	return msg
}

func (e *IOError) Unwrap() error {
	return e.Err
}
