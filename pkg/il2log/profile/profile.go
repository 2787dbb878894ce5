// Package profile loads YAML profiles that customize the rule registry.
//
// A profile can disable built-in rules by kind, add pre-filter noise
// markers, and add custom rules that are tried before the built-in ones:
//
//	version: 1
//	disable:
//	  - ai_aircraft_has_toggled_landing_lights
//	noise:
//	  - "Chat: --- "
//	rules:
//	  - kind: server_chat
//	    body: 'Chat: (?P<callsign>\S+): .*'
package profile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/il2log/il2log-go/internal/safefile"
	"github.com/il2log/il2log-go/pkg/il2log/event"
)

const (
	// MaxProfileSize is the maximum allowed size for a profile file (1MB).
	MaxProfileSize = 1 * 1024 * 1024

	// MaxBodyLength is the maximum length of a custom rule body.
	MaxBodyLength = 512

	// MaxRuleCount is the maximum number of custom rules in a profile.
	MaxRuleCount = 1000

	// MaxNoiseCount is the maximum number of extra noise markers.
	MaxNoiseCount = 1000

	// SupportedVersion is the currently supported profile format version.
	SupportedVersion = 1
)

var kindName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Profile is the parsed form of a profile file.
type Profile struct {
	Version int      `yaml:"version"`
	Disable []string `yaml:"disable,omitempty"`
	Noise   []string `yaml:"noise,omitempty"`
	Rules   []Rule   `yaml:"rules,omitempty"`
}

// Rule is a custom rule. Body is matched after the "[time] " prefix and
// may use the primitive {PLACEHOLDER} patterns and the named groups
// mission, callsign and weapons.
type Rule struct {
	Kind string `yaml:"kind"`
	Body string `yaml:"body"`

	// Date selects the "[Mon D, YYYY time] " prefix instead of "[time] ".
	Date bool `yaml:"date,omitempty"`

	// Position expects the " at x y" suffix after the body.
	Position bool `yaml:"position,omitempty"`
}

// Load reads and parses a profile from path. The file must be a regular
// file no larger than MaxProfileSize.
//
// Example:
//
//	p, err := profile.Load("il2log.yaml")
//	if err != nil {
//	    log.Fatalf("failed to load profile: %v", err)
//	}
//	reg, err := p.Registry()
func Load(path string) (*Profile, error) {
	data, err := safefile.ReadFile(path, MaxProfileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes parses a profile from a byte slice.
func LoadBytes(data []byte) (*Profile, error) {
	if len(data) == 0 {
		return nil, errors.New("profile is empty")
	}
	if len(data) > MaxProfileSize {
		return nil, fmt.Errorf("profile too large: %d bytes (max %d)", len(data), MaxProfileSize)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate performs schema-level validation. It does not compile custom
// rule bodies; Registry does.
func (p *Profile) Validate() error {
	if p.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", p.Version, SupportedVersion),
		}
	}

	for i, name := range p.Disable {
		if _, ok := event.ParseKind(name); !ok {
			return &ValidationError{
				Field:   fmt.Sprintf("disable[%d]", i),
				Message: fmt.Sprintf("unknown kind %q", name),
			}
		}
	}

	if len(p.Noise) > MaxNoiseCount {
		return &ValidationError{
			Field:   "noise",
			Message: fmt.Sprintf("too many markers (%d), maximum allowed is %d", len(p.Noise), MaxNoiseCount),
		}
	}
	for i, m := range p.Noise {
		if strings.TrimSpace(m) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("noise[%d]", i),
				Message: "marker is empty",
			}
		}
	}

	if len(p.Rules) > MaxRuleCount {
		return &ValidationError{
			Field:   "rules",
			Message: fmt.Sprintf("too many rules (%d), maximum allowed is %d", len(p.Rules), MaxRuleCount),
		}
	}

	seen := make(map[string]int, len(p.Rules))
	for i, r := range p.Rules {
		if r.Kind == "" {
			return &RuleError{Index: i, Field: "kind", Message: "kind is required"}
		}
		if !kindName.MatchString(r.Kind) {
			return &RuleError{Index: i, Kind: r.Kind, Field: "kind", Message: "kind must be lower snake case"}
		}
		if _, builtin := event.RolesOf(event.Kind(r.Kind)); builtin {
			return &RuleError{Index: i, Kind: r.Kind, Field: "kind", Message: "kind is built in"}
		}
		if prev, dup := seen[r.Kind]; dup {
			return &RuleError{
				Index:   i,
				Kind:    r.Kind,
				Field:   "kind",
				Message: fmt.Sprintf("duplicate kind (previously defined at rules[%d])", prev),
			}
		}
		seen[r.Kind] = i

		if r.Body == "" {
			return &RuleError{Index: i, Kind: r.Kind, Field: "body", Message: "body is required"}
		}
		if len(r.Body) > MaxBodyLength {
			return &RuleError{
				Index:   i,
				Kind:    r.Kind,
				Field:   "body",
				Message: fmt.Sprintf("body too long: %d bytes (max %d)", len(r.Body), MaxBodyLength),
			}
		}
	}
	return nil
}

// DisabledKinds returns the kinds named in the disable list.
func (p *Profile) DisabledKinds() []event.Kind {
	out := make([]event.Kind, 0, len(p.Disable))
	for _, name := range p.Disable {
		if k, ok := event.ParseKind(name); ok {
			out = append(out, k)
		}
	}
	return out
}
