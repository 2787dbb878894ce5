package grammar

import (
	"errors"
	"fmt"
)

// Sentinel errors for capture conversion failures.
var (
	// ErrMalformedCapture is wrapped by every ConversionError.
	ErrMalformedCapture = errors.New("malformed capture")

	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidNumber    = errors.New("invalid number")
	ErrInvalidEnumValue = errors.New("invalid enum value")
)

// ConversionError reports a capture that matched its pattern structurally
// but could not be converted to its target type.
type ConversionError struct {
	Transform string // transformation name, e.g. "to_time"
	Field     string // first input field
	Value     string // raw captured text
	Err       error  // one of the Err* sentinels, possibly wrapping a strconv/time error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: field %q value %q: %v", e.Transform, e.Field, e.Value, e.Err)
}

// Unwrap makes errors.Is match both ErrMalformedCapture and the specific cause.
func (e *ConversionError) Unwrap() []error {
	return []error{ErrMalformedCapture, e.Err}
}

// RuleError reports a rule that failed construction-time validation.
type RuleError struct {
	Kind    string
	Message string
	Cause   error // regexp compile error, if any
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %q: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *RuleError) Unwrap() error {
	return e.Cause
}
