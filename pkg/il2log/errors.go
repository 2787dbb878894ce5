package il2log

import (
	"errors"
	"fmt"

	"github.com/il2log/il2log-go/internal/logfinder"
	"github.com/il2log/il2log-go/pkg/il2log/event"
)

// Sentinel errors.
var (
	// ErrDuplicateRule is returned when registering a rule whose pattern is
	// already registered.
	ErrDuplicateRule = errors.New("duplicate rule")

	// ErrUnknownRule is returned when unregistering a rule that is not registered.
	ErrUnknownRule = errors.New("unknown rule")

	// ErrLogNotFound is returned when no server event log can be located.
	ErrLogNotFound = logfinder.ErrLogNotFound

	// ErrWatcherClosed is returned when Watch is called on a closed watcher.
	ErrWatcherClosed = errors.New("watcher already closed")

	// ErrAlreadyWatching is returned when Watch is called more than once.
	ErrAlreadyWatching = errors.New("watch already called")
)

// RuleError reports registry misuse for a specific rule.
type RuleError struct {
	Kind    event.Kind
	Pattern string
	Err     error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *RuleError) Unwrap() error {
	return e.Err
}

// ParseError represents a line that matched a rule structurally but could
// not be converted.
type ParseError struct {
	LineNo int        // 1-based line number, 0 if unknown
	Line   string     // the problematic line
	Kind   event.Kind // kind of the rule that matched, if any
	Err    error      // underlying error
}

func (e *ParseError) Error() string {
	if e.LineNo > 0 {
		return fmt.Sprintf("parse error at line %d: %v", e.LineNo, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// EventParsingError is returned by strict dispatch when no rule matches.
type EventParsingError struct {
	LineNo int
	Line   string
}

func (e *EventParsingError) Error() string {
	if e.LineNo > 0 {
		return fmt.Sprintf("line %d: no rule matches %q", e.LineNo, e.Line)
	}
	return fmt.Sprintf("no rule matches %q", e.Line)
}

// WatchOp identifies the operation that failed.
type WatchOp string

const (
	WatchOpFind WatchOp = "find"
	WatchOpTail WatchOp = "tail"
)

// WatchError represents an error during watching.
type WatchError struct {
	Op   WatchOp
	Path string
	Err  error
}

func (e *WatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *WatchError) Unwrap() error {
	return e.Err
}
