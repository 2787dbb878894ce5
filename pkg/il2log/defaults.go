package il2log

import (
	"io"
	"log/slog"
	"sync"

	"github.com/il2log/il2log-go/internal/parser"
	"github.com/il2log/il2log-go/pkg/il2log/event"
	"github.com/il2log/il2log-go/pkg/il2log/grammar"
)

// discardLogger returns a logger that discards all output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var (
	defaultRulesOnce sync.Once
	defaultRules     []*grammar.Rule

	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
)

// DefaultRules returns the built-in rule set, priority sorted. The rules
// are compiled once; the returned slice is a fresh copy.
func DefaultRules() []*grammar.Rule {
	defaultRulesOnce.Do(func() {
		defaultRules = parser.Rules()
		SortRules(defaultRules)
	})
	return append([]*grammar.Rule(nil), defaultRules...)
}

// DefaultNoiseMarkers returns the built-in pre-filter markers.
func DefaultNoiseMarkers() []string {
	return append([]string(nil), parser.NoiseMarkers...)
}

// NewDefaultRegistry returns a new registry holding DefaultRules and the
// default noise markers. The registry is independent of any other and may
// be customized freely.
func NewDefaultRegistry(opts ...RegistryOption) *Registry {
	r := NewRegistry(opts...)
	for _, rule := range DefaultRules() {
		// Default rules have distinct patterns.
		if err := r.Register(rule, nil); err != nil {
			panic(err)
		}
	}
	for _, m := range parser.NoiseMarkers {
		r.AddNoise(m)
	}
	return r
}

// builtin is the registry behind ParseLine and DefaultParser. It is never
// handed out, so it stays unmodified.
func builtin() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewDefaultRegistry()
	})
	return defaultRegistry
}

// ParseLine parses a single server log line with the built-in rules.
//
// Return values:
//   - (*Event, nil): Successfully parsed event
//   - (nil, nil): Line doesn't match any known event shape (not an error)
//   - (nil, error): Line matched a shape but a field could not be converted
//
// Example:
//
//	ev, err := il2log.ParseLine("[8:33:15 PM] User0:Pe-8 in flight at 100.0 200.99")
//	if err != nil {
//	    log.Printf("parse error: %v", err)
//	} else if ev != nil {
//	    fmt.Println(ev.Kind)
//	}
func ParseLine(line string) (*event.Event, error) {
	return builtin().Dispatch(line)
}
