package il2log

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/il2log/il2log-go/pkg/il2log/event"
	"github.com/il2log/il2log-go/pkg/il2log/grammar"
)

// Callback post-processes a matched event. It receives the raw captures of
// the matching rule and the converted event. A non-nil return value
// replaces the event; nil keeps it.
type Callback func(captures map[string]string, ev *event.Event) *event.Event

type entry struct {
	rule *grammar.Rule
	cb   Callback
}

// snapshot is never modified once published.
type snapshot struct {
	entries []entry
	byPat   map[string]int
	noise   []string
}

// Registry is an ordered set of rules tried first-match-wins against each
// line.
//
// Dispatch is safe for concurrent use and never blocks on registration:
// Register, Unregister and AddNoise publish a new snapshot instead of
// modifying the one in use.
type Registry struct {
	mu   sync.RWMutex
	snap *snapshot
	log  *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets a logger for registration and dispatch debug output.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.log = logger
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		snap: &snapshot{byPat: map[string]int{}},
		log:  discardLogger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Registry) load() *snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// Register appends rule with an optional callback. Callers register rules
// in priority order; see SortRules.
//
// Returns an error wrapping ErrDuplicateRule if a rule with the same pattern
// is already registered.
func (r *Registry) Register(rule *grammar.Rule, cb Callback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.snap
	if _, ok := old.byPat[rule.Pattern()]; ok {
		return &RuleError{Kind: rule.Kind(), Pattern: rule.Pattern(), Err: ErrDuplicateRule}
	}

	entries := make([]entry, len(old.entries), len(old.entries)+1)
	copy(entries, old.entries)
	entries = append(entries, entry{rule: rule, cb: cb})

	r.snap = &snapshot{entries: entries, byPat: indexPatterns(entries), noise: old.noise}
	r.log.Debug("registered rule", "kind", rule.Kind(), "position", len(entries)-1)
	return nil
}

// Unregister removes the rule with rule's pattern.
//
// Returns an error wrapping ErrUnknownRule if no such rule is registered.
func (r *Registry) Unregister(rule *grammar.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.snap
	i, ok := old.byPat[rule.Pattern()]
	if !ok {
		return &RuleError{Kind: rule.Kind(), Pattern: rule.Pattern(), Err: ErrUnknownRule}
	}

	entries := make([]entry, 0, len(old.entries)-1)
	entries = append(entries, old.entries[:i]...)
	entries = append(entries, old.entries[i+1:]...)

	r.snap = &snapshot{entries: entries, byPat: indexPatterns(entries), noise: old.noise}
	r.log.Debug("unregistered rule", "kind", rule.Kind())
	return nil
}

func indexPatterns(entries []entry) map[string]int {
	m := make(map[string]int, len(entries))
	for i, e := range entries {
		m[e.rule.Pattern()] = i
	}
	return m
}

// AddNoise adds a pre-filter marker. Lines containing any marker are
// dropped before rule matching. Empty markers are ignored.
func (r *Registry) AddNoise(marker string) {
	if marker == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.snap
	noise := make([]string, len(old.noise), len(old.noise)+1)
	copy(noise, old.noise)
	noise = append(noise, marker)
	r.snap = &snapshot{entries: old.entries, byPat: old.byPat, noise: noise}
}

// IsNoise reports whether line contains a pre-filter marker.
func (r *Registry) IsNoise(line string) bool {
	return r.load().isNoise(line)
}

func (s *snapshot) isNoise(line string) bool {
	for _, m := range s.noise {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// Rules returns the registered rules in dispatch order.
func (r *Registry) Rules() []*grammar.Rule {
	s := r.load()
	rules := make([]*grammar.Rule, len(s.entries))
	for i, e := range s.entries {
		rules[i] = e.rule
	}
	return rules
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(r.load().entries)
}

// Lookup returns the first registered rule producing kind.
func (r *Registry) Lookup(kind event.Kind) (*grammar.Rule, bool) {
	for _, e := range r.load().entries {
		if e.rule.Kind() == kind {
			return e.rule, true
		}
	}
	return nil, false
}

// Dispatch tries the registered rules in order and converts the first
// structural match. A trailing CR is ignored.
//
// Returns:
//   - (*Event, nil): a rule matched
//   - (nil, nil): no rule matched, or the line is noise
//   - (nil, error): the first matching rule could not convert its captures;
//     later rules are not tried
func (r *Registry) Dispatch(line string) (*event.Event, error) {
	line = strings.TrimRight(line, "\r")
	s := r.load()
	if s.isNoise(line) {
		return nil, nil
	}

	for _, e := range s.entries {
		captures, ok := e.rule.Match(line)
		if !ok {
			continue
		}
		ev, err := e.rule.Apply(captures)
		if err != nil {
			r.log.Debug("conversion failed", "kind", e.rule.Kind(), "line", line, "error", err)
			return nil, &ParseError{Line: line, Kind: e.rule.Kind(), Err: err}
		}
		if e.cb != nil {
			if repl := e.cb(captures, ev); repl != nil {
				ev = repl
			}
		}
		return ev, nil
	}
	return nil, nil
}

// DispatchStrict is like Dispatch but reports an unmatched line as an
// *EventParsingError. Noise lines are still dropped silently.
func (r *Registry) DispatchStrict(line string) (*event.Event, error) {
	ev, err := r.Dispatch(line)
	if err != nil {
		return nil, err
	}
	if ev == nil && !r.IsNoise(strings.TrimRight(line, "\r")) {
		return nil, &EventParsingError{Line: line}
	}
	return ev, nil
}

// ParseLine implements the Parser interface. Noise lines are reported as
// matched with no events.
func (r *Registry) ParseLine(ctx context.Context, line string) (ParseResult, error) {
	ev, err := r.Dispatch(line)
	if err != nil {
		return ParseResult{}, err
	}
	if ev == nil {
		return ParseResult{Matched: r.IsNoise(strings.TrimRight(line, "\r"))}, nil
	}
	return ParseResult{Events: []event.Event{*ev}, Matched: true}, nil
}

// Ensure Registry implements Parser.
var _ Parser = (*Registry)(nil)
