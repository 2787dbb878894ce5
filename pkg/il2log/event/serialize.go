package event

// ToMap converts ev into plain nested maps suitable for JSON encoding.
//
// Time and date become ISO-8601 strings, belligerents become
// {"name", "value"} pairs, actors become maps of their fields plus a
// "type" key, and the position becomes {"x", "y"}. Absent fields are
// omitted.
func ToMap(ev *Event) map[string]any {
	m := map[string]any{
		"kind": string(ev.Kind),
		"time": ev.Time.String(),
	}
	if ev.Date != nil {
		m["date"] = ev.Date.String()
	}
	if ev.Mission != "" {
		m["mission"] = ev.Mission
	}
	if ev.Callsign != "" {
		m["callsign"] = ev.Callsign
	}
	if ev.Belligerent != nil {
		m["belligerent"] = map[string]any{
			"name":  ev.Belligerent.String(),
			"value": int(*ev.Belligerent),
		}
	}
	if ev.Actor != nil {
		m["actor"] = ActorMap(ev.Actor)
	}
	if ev.Attacker != nil {
		m["attacker"] = ActorMap(ev.Attacker)
	}
	if ev.Assistant != nil {
		m["assistant"] = ActorMap(ev.Assistant)
	}
	if ev.Weapons != "" {
		m["weapons"] = ev.Weapons
	}
	if ev.Fuel != nil {
		m["fuel"] = *ev.Fuel
	}
	if ev.Enabled != nil {
		m["enabled"] = *ev.Enabled
	}
	if ev.TargetIndex != nil {
		m["target_index"] = *ev.TargetIndex
	}
	if ev.Complete != nil {
		m["complete"] = *ev.Complete
	}
	if ev.Pos != nil {
		m["pos"] = map[string]any{"x": ev.Pos.X, "y": ev.Pos.Y}
	}
	if ev.RawLine != "" {
		m["raw_line"] = ev.RawLine
	}
	return m
}

// ActorMap converts an actor value into a map of its fields.
func ActorMap(a Actor) map[string]any {
	m := map[string]any{"type": a.ActorKind().String()}
	switch v := a.(type) {
	case HumanAircraft:
		m["callsign"] = v.Callsign
		m["aircraft"] = v.Aircraft
	case HumanAircraftCrewMember:
		m["callsign"] = v.Callsign
		m["aircraft"] = v.Aircraft
		m["seat"] = v.Seat
	case AIAircraft:
		m["flight"] = v.Flight
		m["index"] = v.Index
	case AIAircraftCrewMember:
		m["flight"] = v.Flight
		m["index"] = v.Index
		m["seat"] = v.Seat
	case StationaryUnit:
		m["id"] = v.ID
	case MovingUnit:
		m["id"] = v.ID
	case MovingUnitMember:
		m["unit_id"] = v.UnitID
		m["member"] = v.Member
	case Building:
		m["name"] = v.Name
	case Bridge:
		m["id"] = v.ID
	}
	return m
}
