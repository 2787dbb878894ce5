package grammar

import (
	"fmt"
	"regexp"

	"github.com/il2log/il2log-go/pkg/il2log/event"
)

// Role qualifies the capture names of an actor shape so that the same
// shape can appear more than once in a rule.
type Role string

const (
	RoleActor     Role = "actor"
	RoleAttacker  Role = "attacker"
	RoleAssistant Role = "assistant"
)

// Field returns the role-qualified capture name, e.g. "attacker_callsign".
func (r Role) Field(name string) string {
	return string(r) + "_" + name
}

// Fragment is a piece of a rule pattern together with the transformations
// its captures need.
type Fragment struct {
	expr       string
	transforms []Transform
}

// Expr returns the expanded regular expression of f.
func (f Fragment) Expr() string {
	return f.expr
}

// Transforms returns the transformations declared by f, in order.
func (f Fragment) Transforms() []Transform {
	return append([]Transform(nil), f.transforms...)
}

// Lit matches s literally.
func Lit(s string) Fragment {
	return Fragment{expr: regexp.QuoteMeta(s)}
}

// Raw is a regular expression fragment; {NAME} references are expanded.
func Raw(expr string, transforms ...Transform) Fragment {
	return Fragment{expr: Expand(expr), transforms: transforms}
}

// Capture wraps expr in a named group.
func Capture(name, expr string, transforms ...Transform) Fragment {
	return Fragment{
		expr:       "(?P<" + name + ">" + Expand(expr) + ")",
		transforms: transforms,
	}
}

// Seq concatenates fragments.
func Seq(parts ...Fragment) Fragment {
	var f Fragment
	for _, p := range parts {
		f.expr += p.expr
		f.transforms = append(f.transforms, p.transforms...)
	}
	return f
}

// TimePrefix matches "[8:33:05 PM]" followed by whitespace.
func TimePrefix() Fragment {
	return Seq(Lit("["), Capture("time", "{TIME}", ToTime("time")), Raw(`\]\s+`))
}

// DateTimePrefix matches "[Sep 15, 2013 8:33:05 PM]" followed by whitespace.
func DateTimePrefix() Fragment {
	return Seq(
		Lit("["),
		Capture("date", "{DATE}", ToDate("date")),
		Lit(" "),
		Capture("time", "{TIME}", ToTime("time")),
		Raw(`\]\s+`),
	)
}

// PositionSuffix matches " at 100.0 200.99".
func PositionSuffix() Fragment {
	return Seq(
		Lit(" at "),
		Capture("pos_x", "{FLOAT}"),
		Lit(" "),
		Capture("pos_y", "{FLOAT}", ToPosition("pos_x", "pos_y", "pos")),
	)
}

// Self matches the agent of self-inflicted damage.
func Self() Fragment {
	return Raw("{SELF}")
}

// ActorFragment returns the pattern of an actor shape in the given role.
func ActorFragment(kind event.ActorKind, role Role) Fragment {
	c := func(name, expr string) Fragment {
		return Capture(role.Field(name), expr)
	}
	seat := Seq(Lit("("), c("seat", "{INT}"), Lit(")"))

	var f Fragment
	switch kind {
	case event.ActorHumanAircraft:
		f = Seq(c("callsign", "{CALLSIGN}"), Lit(":"), c("aircraft", "{AIRCRAFT}"))
	case event.ActorHumanCrewMember:
		f = Seq(c("callsign", "{CALLSIGN}"), Lit(":"), c("aircraft", "{AIRCRAFT}"), seat)
	case event.ActorAIAircraft:
		f = Seq(c("flight", "{TOKEN}"), c("index", `\d\d`))
	case event.ActorAICrewMember:
		f = Seq(c("flight", "{TOKEN}"), c("index", `\d\d`), seat)
	case event.ActorStationaryUnit:
		f = c("id", "{STATIC}")
	case event.ActorMovingUnit:
		f = c("id", "{CHIEF}")
	case event.ActorMovingUnitMember:
		f = Seq(c("unit_id", "{CHIEF}"), c("member", "{INT}"))
	case event.ActorBuilding:
		f = Seq(Lit("3do/Buildings/"), c("name", "{TOKEN}"), Raw("/{MODEL}"))
	case event.ActorBridge:
		f = c("id", "{BRIDGE}")
	case event.ActorTree:
		f = Raw("3do/Tree/Line_W/{MODEL}")
	default:
		panic(fmt.Sprintf("grammar: no actor shape for %v", kind))
	}
	f.transforms = append(f.transforms, ToActor(kind, role))
	return f
}
