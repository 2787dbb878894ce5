package profile

import "fmt"

// ValidationError represents a schema-level validation error, such as an
// unsupported version or an unknown kind in the disable list.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// RuleError represents an error in one custom rule of a profile.
type RuleError struct {
	Index   int    // 0-based index of the rule in the file
	Kind    string // may be empty if the kind field is missing
	Field   string
	Message string
	Cause   error // underlying error, e.g. a regex compile error
}

func (e *RuleError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("rule %q: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("rule[%d]: %s: %s", e.Index, e.Field, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *RuleError) Unwrap() error {
	return e.Cause
}
