package grammar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/il2log/il2log-go/pkg/il2log/event"
)

// Fields is the working set of a single match: raw captures keyed by
// group name, replaced step by step with typed values.
type Fields map[string]any

// Transform converts a fixed set of input fields into one output field.
// Inputs are removed and the output inserted only if the conversion
// succeeds, so a failing transform leaves Fields untouched.
type Transform struct {
	Name    string
	Inputs  []string
	Output  string
	convert func(raw []string) (any, error)
}

// Apply runs t against f.
func (t Transform) Apply(f Fields) error {
	raw := make([]string, len(t.Inputs))
	for i, name := range t.Inputs {
		v, ok := f[name].(string)
		if !ok {
			return &ConversionError{
				Transform: t.Name,
				Field:     name,
				Err:       fmt.Errorf("%w: field not captured", ErrMalformedCapture),
			}
		}
		raw[i] = v
	}

	out, err := t.convert(raw)
	if err != nil {
		field := t.Output
		if len(t.Inputs) > 0 {
			field = t.Inputs[0]
		}
		return &ConversionError{
			Transform: t.Name,
			Field:     field,
			Value:     strings.Join(raw, " "),
			Err:       err,
		}
	}

	for _, name := range t.Inputs {
		delete(f, name)
	}
	f[t.Output] = out
	return nil
}

func single(name, field string, fn func(string) (any, error)) Transform {
	return Transform{
		Name:   name,
		Inputs: []string{field},
		Output: field,
		convert: func(raw []string) (any, error) {
			return fn(raw[0])
		},
	}
}

// ToTime parses an "8:33:05 PM" capture into an event.Clock.
func ToTime(field string) Transform {
	return single("to_time", field, func(s string) (any, error) {
		c, err := event.ParseClock(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
		}
		return c, nil
	})
}

// ToDate parses a "Sep 15, 2013" capture into an event.Date.
func ToDate(field string) Transform {
	return single("to_date", field, func(s string) (any, error) {
		d, err := event.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
		}
		return d, nil
	})
}

// ToInt parses a decimal integer capture.
func ToInt(field string) Transform {
	return single("to_int", field, func(s string) (any, error) {
		return parseInt(s)
	})
}

// ToFloat parses a decimal float capture.
func ToFloat(field string) Transform {
	return single("to_float", field, func(s string) (any, error) {
		return parseFloat(s)
	})
}

// ToToggle maps "on"/"off" to true/false.
func ToToggle(field string) Transform {
	return single("to_toggle_value", field, func(s string) (any, error) {
		switch s {
		case "on":
			return true, nil
		case "off":
			return false, nil
		}
		return nil, fmt.Errorf("%w: toggle %q", ErrInvalidEnumValue, s)
	})
}

// ToTargetResult maps "Complete"/"Failed" to true/false.
func ToTargetResult(field string) Transform {
	return single("to_target_result", field, func(s string) (any, error) {
		switch s {
		case "Complete":
			return true, nil
		case "Failed":
			return false, nil
		}
		return nil, fmt.Errorf("%w: target result %q", ErrInvalidEnumValue, s)
	})
}

// ToBelligerent looks up an army name case-insensitively.
func ToBelligerent(field string) Transform {
	return single("to_belligerent", field, func(s string) (any, error) {
		b, ok := event.ParseBelligerent(s)
		if !ok {
			return nil, fmt.Errorf("%w: belligerent %q", ErrInvalidEnumValue, s)
		}
		return b, nil
	})
}

// ToPosition pops x and y and inserts a single event.Point under out.
func ToPosition(x, y, out string) Transform {
	return Transform{
		Name:   "to_position",
		Inputs: []string{x, y},
		Output: out,
		convert: func(raw []string) (any, error) {
			px, err := parseFloat(raw[0])
			if err != nil {
				return nil, err
			}
			py, err := parseFloat(raw[1])
			if err != nil {
				return nil, err
			}
			return event.Point{X: px, Y: py}, nil
		},
	}
}

// ToActor pops the role-prefixed captures of an actor shape and inserts
// the assembled event.Actor under the role name.
func ToActor(kind event.ActorKind, role Role) Transform {
	in := func(names ...string) []string {
		out := make([]string, len(names))
		for i, n := range names {
			out[i] = role.Field(n)
		}
		return out
	}

	t := Transform{Name: "to_" + kind.String(), Output: string(role)}
	switch kind {
	case event.ActorHumanAircraft:
		t.Inputs = in("callsign", "aircraft")
		t.convert = func(raw []string) (any, error) {
			return event.HumanAircraft{Callsign: raw[0], Aircraft: raw[1]}, nil
		}
	case event.ActorHumanCrewMember:
		t.Inputs = in("callsign", "aircraft", "seat")
		t.convert = func(raw []string) (any, error) {
			seat, err := parseInt(raw[2])
			if err != nil {
				return nil, err
			}
			return event.HumanAircraftCrewMember{Callsign: raw[0], Aircraft: raw[1], Seat: seat}, nil
		}
	case event.ActorAIAircraft:
		t.Inputs = in("flight", "index")
		t.convert = func(raw []string) (any, error) {
			idx, err := parseInt(raw[1])
			if err != nil {
				return nil, err
			}
			return event.AIAircraft{Flight: raw[0], Index: idx}, nil
		}
	case event.ActorAICrewMember:
		t.Inputs = in("flight", "index", "seat")
		t.convert = func(raw []string) (any, error) {
			idx, err := parseInt(raw[1])
			if err != nil {
				return nil, err
			}
			seat, err := parseInt(raw[2])
			if err != nil {
				return nil, err
			}
			return event.AIAircraftCrewMember{Flight: raw[0], Index: idx, Seat: seat}, nil
		}
	case event.ActorStationaryUnit:
		t.Inputs = in("id")
		t.convert = func(raw []string) (any, error) {
			return event.StationaryUnit{ID: raw[0]}, nil
		}
	case event.ActorMovingUnit:
		t.Inputs = in("id")
		t.convert = func(raw []string) (any, error) {
			return event.MovingUnit{ID: raw[0]}, nil
		}
	case event.ActorMovingUnitMember:
		t.Inputs = in("unit_id", "member")
		t.convert = func(raw []string) (any, error) {
			member, err := parseInt(raw[1])
			if err != nil {
				return nil, err
			}
			return event.MovingUnitMember{UnitID: raw[0], Member: member}, nil
		}
	case event.ActorBuilding:
		t.Inputs = in("name")
		t.convert = func(raw []string) (any, error) {
			return event.Building{Name: raw[0]}, nil
		}
	case event.ActorBridge:
		t.Inputs = in("id")
		t.convert = func(raw []string) (any, error) {
			return event.Bridge{ID: raw[0]}, nil
		}
	case event.ActorTree:
		t.convert = func([]string) (any, error) {
			return event.Tree{}, nil
		}
	default:
		panic(fmt.Sprintf("grammar: no actor shape for %v", kind))
	}
	return t
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidNumber, err)
	}
	return n, nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidNumber, err)
	}
	return f, nil
}
