package codec

import (
	"errors"
	"fmt"
)

// Decode failure reasons. Every conversion failure carries one of
// these so callers can tell the modes apart without string matching
// the wrapped error.
const (
	ReasonBadBase64  = "invalid base64"
	ReasonBadJSON    = "invalid JSON"
	ReasonReadFailed = "read failed"
	ReasonEmptyRead  = "empty read"
	ReasonBadDataURL = "invalid data URL"
)

// DecodeError reports a conversion that failed on malformed input. The zero
// Err is valid for failures with no underlying cause (e.g. an empty
// read).
type DecodeError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode: %s", e.Reason)
}

// Unwrap returns the underlying error, if any.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err is, or wraps, a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
