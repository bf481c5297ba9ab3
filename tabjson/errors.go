package tabjson

import (
	"errors"
	"fmt"
)

// Sentinel errors for the decode pipeline. Structural errors abort the
// whole read; there is deliberately no sentinel for cell-level type
// conflicts, which resolve to null and are only counted.
var (
	// ErrUnterminatedString: the input ended inside a string literal or
	// escape sequence.
	ErrUnterminatedString = errors.New("unterminated string literal")

	// ErrUnbalancedBraces: brace depth was non-zero at a record boundary
	// or at end of input.
	ErrUnbalancedBraces = errors.New("unbalanced braces")

	// ErrMalformedRecord: a record is not a valid flat JSON object.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrEmptySchema: no records were available for schema inference.
	ErrEmptySchema = errors.New("no records to infer schema from")
)

// DecodeError wraps a sentinel with the byte offset of the offending input.
type DecodeError struct {
	Err    error
	Offset int
	Detail string
}

func (e *DecodeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s at offset %d", e.Err, e.Offset)
	}
	return fmt.Sprintf("%s at offset %d: %s", e.Err, e.Offset, e.Detail)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func errAt(sentinel error, offset int, format string, args ...any) error {
	return &DecodeError{Err: sentinel, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}
