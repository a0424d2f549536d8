package googlepay

import (
	"errors"
	"fmt"
)

// Sentinel errors for raw configuration access.
// Use errors.Is() to check against these.
var (
	ErrMissingKey = errors.New("missing key")
	ErrWrongType  = errors.New("wrong type")
)

// FieldError reports a failed read of a single configuration key.
type FieldError struct {
	Key  string
	Want string // expected type, e.g. "boolean"
	Got  any    // offending value, nil when the key is missing
	Err  error
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrMissingKey) {
		return fmt.Sprintf("%s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %v: want %s, got %T", e.Key, e.Err, e.Want, e.Got)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func missingKey(key, want string) *FieldError {
	return &FieldError{Key: key, Want: want, Err: ErrMissingKey}
}

func wrongType(key, want string, got any) *FieldError {
	return &FieldError{Key: key, Want: want, Got: got, Err: ErrWrongType}
}
