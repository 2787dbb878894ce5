package profile

import (
	"fmt"

	"github.com/il2log/il2log-go/pkg/il2log"
	"github.com/il2log/il2log-go/pkg/il2log/event"
	"github.com/il2log/il2log-go/pkg/il2log/grammar"
)

// CompileRules builds the profile's custom rules in file order.
func (p *Profile) CompileRules() ([]*grammar.Rule, error) {
	rules := make([]*grammar.Rule, 0, len(p.Rules))
	for i, r := range p.Rules {
		parts := []grammar.Fragment{grammar.TimePrefix()}
		if r.Date {
			parts[0] = grammar.DateTimePrefix()
		}
		parts = append(parts, grammar.Raw(r.Body))
		if r.Position {
			parts = append(parts, grammar.PositionSuffix())
		}

		rule, err := grammar.NewRule(event.Kind(r.Kind), parts...)
		if err != nil {
			return nil, &RuleError{Index: i, Kind: r.Kind, Field: "body", Message: "invalid rule", Cause: err}
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Registry returns a registry holding the profile's custom rules followed
// by the built-in rules that are not disabled, and the default noise
// markers plus the profile's own.
func (p *Profile) Registry(opts ...il2log.RegistryOption) (*il2log.Registry, error) {
	custom, err := p.CompileRules()
	if err != nil {
		return nil, err
	}

	disabled := make(map[event.Kind]bool, len(p.Disable))
	for _, k := range p.DisabledKinds() {
		disabled[k] = true
	}

	reg := il2log.NewRegistry(opts...)
	for i, rule := range custom {
		if err := reg.Register(rule, nil); err != nil {
			return nil, &RuleError{Index: i, Kind: p.Rules[i].Kind, Field: "body", Message: "duplicate pattern", Cause: err}
		}
	}
	for _, rule := range il2log.DefaultRules() {
		if disabled[rule.Kind()] {
			continue
		}
		if err := reg.Register(rule, nil); err != nil {
			return nil, fmt.Errorf("registering %s: %w", rule.Kind(), err)
		}
	}

	for _, m := range il2log.DefaultNoiseMarkers() {
		reg.AddNoise(m)
	}
	for _, m := range p.Noise {
		reg.AddNoise(m)
	}
	return reg, nil
}
