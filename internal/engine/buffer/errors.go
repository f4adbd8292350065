package buffer

import (
	"errors"
	"fmt"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrLineOutOfRange   = errors.New("line out of range")
	ErrUnknownDelimiter = errors.New("unknown line delimiter")
)

// OutOfRangeError reports an offset, length or line argument that falls
// outside the buffer. It wraps ErrOffsetOutOfRange or ErrLineOutOfRange.
type OutOfRangeError struct {
	Op    string // Operation that rejected the argument
	Value int    // Offending offset, end offset or line
	Limit int    // Largest value that would have been accepted
	Err   error
}

// Error implements the error interface.
func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %d exceeds [0, %d]: %v", e.Op, e.Value, e.Limit, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *OutOfRangeError) Unwrap() error {
	return e.Err
}

func offsetError(op string, value, limit int) error {
	return &OutOfRangeError{Op: op, Value: value, Limit: limit, Err: ErrOffsetOutOfRange}
}

func lineError(op string, value, limit int) error {
	return &OutOfRangeError{Op: op, Value: value, Limit: limit, Err: ErrLineOutOfRange}
}
