package grammar

import (
	"fmt"
	"regexp"

	"github.com/il2log/il2log-go/pkg/il2log/event"
)

// eventFields lists the field names Assemble understands. Fields that may be
// left as raw captures are marked true.
var eventFields = map[string]bool{
	"time":         false,
	"date":         false,
	"mission":      true,
	"callsign":     true,
	"belligerent":  false,
	"actor":        false,
	"attacker":     false,
	"assistant":    false,
	"weapons":      true,
	"fuel":         false,
	"enabled":      false,
	"target_index": false,
	"complete":     false,
	"pos":          false,
}

// Rule matches one event shape. Rules are immutable once built and safe for
// concurrent use.
type Rule struct {
	kind       event.Kind
	pattern    string
	re         *regexp.Regexp
	transforms []Transform
}

// NewRule builds a rule for kind from the concatenation of parts. The
// pattern is anchored at both ends.
//
// Construction fails if the pattern does not compile, if a transformation
// consumes a field that is neither captured nor produced by an earlier
// transformation, or if the resulting field set cannot be assembled into
// an event.
func NewRule(kind event.Kind, parts ...Fragment) (*Rule, error) {
	f := Seq(parts...)
	pattern := "^" + f.expr + "$"

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &RuleError{Kind: string(kind), Message: "invalid regular expression", Cause: err}
	}

	if err := validate(kind, re, f.transforms); err != nil {
		return nil, err
	}

	return &Rule{
		kind:       kind,
		pattern:    pattern,
		re:         re,
		transforms: f.transforms,
	}, nil
}

// MustRule is like NewRule but panics on error. It is intended for
// package-level rule tables.
func MustRule(kind event.Kind, parts ...Fragment) *Rule {
	r, err := NewRule(kind, parts...)
	if err != nil {
		panic(err)
	}
	return r
}

func validate(kind event.Kind, re *regexp.Regexp, transforms []Transform) error {
	// true: raw capture, false: transform output
	avail := make(map[string]bool)
	for _, name := range re.SubexpNames()[1:] {
		if name == "" {
			continue
		}
		avail[name] = true
	}

	for _, t := range transforms {
		for _, in := range t.Inputs {
			raw, ok := avail[in]
			if !ok {
				return &RuleError{
					Kind:    string(kind),
					Message: fmt.Sprintf("%s: input %q is not captured", t.Name, in),
				}
			}
			if !raw {
				return &RuleError{
					Kind:    string(kind),
					Message: fmt.Sprintf("%s: input %q is already converted", t.Name, in),
				}
			}
			delete(avail, in)
		}
		if _, dup := avail[t.Output]; dup {
			return &RuleError{
				Kind:    string(kind),
				Message: fmt.Sprintf("%s: output %q is already set", t.Name, t.Output),
			}
		}
		avail[t.Output] = false
	}

	if _, ok := avail["time"]; !ok {
		return &RuleError{Kind: string(kind), Message: "no time field"}
	}
	for name, raw := range avail {
		rawOK, known := eventFields[name]
		if !known {
			return &RuleError{Kind: string(kind), Message: fmt.Sprintf("unknown event field %q", name)}
		}
		if raw && !rawOK {
			return &RuleError{Kind: string(kind), Message: fmt.Sprintf("field %q is never converted", name)}
		}
	}
	return nil
}

// Kind returns the event kind the rule produces.
func (r *Rule) Kind() event.Kind { return r.kind }

// Pattern returns the anchored regular expression source. Two rules are
// duplicates when their patterns are equal.
func (r *Rule) Pattern() string { return r.pattern }

// Transforms returns the rule's transformations in application order.
func (r *Rule) Transforms() []Transform {
	return append([]Transform(nil), r.transforms...)
}

// Match returns the raw captures of line, or false if the line does not
// have the rule's shape.
func (r *Rule) Match(line string) (map[string]string, bool) {
	m := r.re.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	captures := make(map[string]string, len(m)-1)
	for i, name := range r.re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		captures[name] = m[i]
	}
	return captures, true
}

// Apply runs the rule's transformations over captures and assembles the
// event. captures is not modified.
func (r *Rule) Apply(captures map[string]string) (*event.Event, error) {
	f := make(Fields, len(captures))
	for k, v := range captures {
		f[k] = v
	}
	for _, t := range r.transforms {
		if err := t.Apply(f); err != nil {
			return nil, err
		}
	}
	return Assemble(r.kind, f)
}

// Parse matches line and converts it.
//
// Returns:
//   - (*Event, nil): line has the rule's shape
//   - (nil, nil): line does not match
//   - (nil, error): line matched but a capture could not be converted
func (r *Rule) Parse(line string) (*event.Event, error) {
	captures, ok := r.Match(line)
	if !ok {
		return nil, nil
	}
	return r.Apply(captures)
}

func (r *Rule) String() string {
	return string(r.kind)
}

// Assemble builds an event from fully converted fields.
func Assemble(kind event.Kind, f Fields) (*event.Event, error) {
	ev := &event.Event{Kind: kind}
	for name, v := range f {
		ok := true
		switch name {
		case "time":
			ev.Time, ok = v.(event.Clock)
		case "date":
			var d event.Date
			d, ok = v.(event.Date)
			ev.Date = &d
		case "mission":
			ev.Mission, ok = v.(string)
		case "callsign":
			ev.Callsign, ok = v.(string)
		case "weapons":
			ev.Weapons, ok = v.(string)
		case "belligerent":
			var b event.Belligerent
			b, ok = v.(event.Belligerent)
			ev.Belligerent = &b
		case "actor":
			ev.Actor, ok = v.(event.Actor)
		case "attacker":
			ev.Attacker, ok = v.(event.Actor)
		case "assistant":
			ev.Assistant, ok = v.(event.Actor)
		case "fuel":
			var n int
			n, ok = v.(int)
			ev.Fuel = &n
		case "target_index":
			var n int
			n, ok = v.(int)
			ev.TargetIndex = &n
		case "enabled":
			var b bool
			b, ok = v.(bool)
			ev.Enabled = &b
		case "complete":
			var b bool
			b, ok = v.(bool)
			ev.Complete = &b
		case "pos":
			var p event.Point
			p, ok = v.(event.Point)
			ev.Pos = &p
		default:
			return nil, fmt.Errorf("%w: unknown field %q", ErrMalformedCapture, name)
		}
		if !ok {
			return nil, fmt.Errorf("%w: field %q has type %T", ErrMalformedCapture, name, v)
		}
	}
	return ev, nil
}
