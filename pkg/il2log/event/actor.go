package event

// ActorKind enumerates the composite actor shapes found in log lines.
type ActorKind int

const (
	NoActor ActorKind = iota
	ActorHumanAircraft
	ActorHumanCrewMember
	ActorAIAircraft
	ActorAICrewMember
	ActorStationaryUnit
	ActorMovingUnit
	ActorMovingUnitMember
	ActorBuilding
	ActorBridge
	ActorTree
)

var actorKindNames = [...]string{
	NoActor:               "",
	ActorHumanAircraft:    "human_aircraft",
	ActorHumanCrewMember:  "human_aircraft_crew_member",
	ActorAIAircraft:       "ai_aircraft",
	ActorAICrewMember:     "ai_aircraft_crew_member",
	ActorStationaryUnit:   "stationary_unit",
	ActorMovingUnit:       "moving_unit",
	ActorMovingUnitMember: "moving_unit_member",
	ActorBuilding:         "building",
	ActorBridge:           "bridge",
	ActorTree:             "tree",
}

func (k ActorKind) String() string {
	if k < 0 || int(k) >= len(actorKindNames) {
		return "unknown"
	}
	return actorKindNames[k]
}

// IsHuman reports whether the shape is piloted or crewed by a human player.
func (k ActorKind) IsHuman() bool {
	return k == ActorHumanAircraft || k == ActorHumanCrewMember
}

// IsAI reports whether the shape is an AI-controlled aircraft or crew member.
func (k ActorKind) IsAI() bool {
	return k == ActorAIAircraft || k == ActorAICrewMember
}

// Actor is one of the composite identities below. The set is closed; all
// implementations are comparable structs, so two actors are equal exactly
// when their kinds and field values are.
type Actor interface {
	ActorKind() ActorKind
}

// HumanAircraft is an aircraft flown by a player, e.g. "User0:Pe-8".
type HumanAircraft struct {
	Callsign string `json:"callsign"`
	Aircraft string `json:"aircraft"`
}

// HumanAircraftCrewMember is a crew seat of a player aircraft, e.g. "User0:Pe-8(0)".
type HumanAircraftCrewMember struct {
	Callsign string `json:"callsign"`
	Aircraft string `json:"aircraft"`
	Seat     int    `json:"seat"`
}

// AIAircraft is an AI aircraft, e.g. "r01000" (flight "r010", index 0).
type AIAircraft struct {
	Flight string `json:"flight"`
	Index  int    `json:"index"`
}

// AIAircraftCrewMember is a crew seat of an AI aircraft, e.g. "r01000(1)".
type AIAircraftCrewMember struct {
	Flight string `json:"flight"`
	Index  int    `json:"index"`
	Seat   int    `json:"seat"`
}

// StationaryUnit is a static object such as "0_Static".
type StationaryUnit struct {
	ID string `json:"id"`
}

// MovingUnit is a ground or naval column such as "0_Chief".
type MovingUnit struct {
	ID string `json:"id"`
}

// MovingUnitMember is one vehicle of a column, e.g. "0_Chief3".
type MovingUnitMember struct {
	UnitID string `json:"unit_id"`
	Member int    `json:"member"`
}

// Building is a map building identified by its model path fragment,
// e.g. "Finland/CenterHouse1_w" from "3do/Buildings/Finland/CenterHouse1_w/live.sim".
type Building struct {
	Name string `json:"name"`
}

// Bridge is a bridge section such as "Bridge159".
type Bridge struct {
	ID string `json:"id"`
}

// Tree is the tree line object. It carries no identity.
type Tree struct{}

func (HumanAircraft) ActorKind() ActorKind           { return ActorHumanAircraft }
func (HumanAircraftCrewMember) ActorKind() ActorKind { return ActorHumanCrewMember }
func (AIAircraft) ActorKind() ActorKind              { return ActorAIAircraft }
func (AIAircraftCrewMember) ActorKind() ActorKind    { return ActorAICrewMember }
func (StationaryUnit) ActorKind() ActorKind          { return ActorStationaryUnit }
func (MovingUnit) ActorKind() ActorKind              { return ActorMovingUnit }
func (MovingUnitMember) ActorKind() ActorKind        { return ActorMovingUnitMember }
func (Building) ActorKind() ActorKind                { return ActorBuilding }
func (Bridge) ActorKind() ActorKind                  { return ActorBridge }
func (Tree) ActorKind() ActorKind                    { return ActorTree }

// CallsignOf returns the player callsign behind a, if a is player controlled.
func CallsignOf(a Actor) (string, bool) {
	switch v := a.(type) {
	case HumanAircraft:
		return v.Callsign, true
	case HumanAircraftCrewMember:
		return v.Callsign, true
	}
	return "", false
}
