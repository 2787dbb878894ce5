package event

import (
	"sort"
	"strings"
)

// Kinds that do not follow the subject/verb naming scheme.
const (
	MissionIsPlaying         Kind = "mission_is_playing"
	MissionHasBegun          Kind = "mission_has_begun"
	MissionHasEnded          Kind = "mission_has_ended"
	MissionWasWon            Kind = "mission_was_won"
	TargetStateWasChanged    Kind = "target_state_was_changed"
	HumanHasConnected        Kind = "human_has_connected"
	HumanHasDisconnected     Kind = "human_has_disconnected"
	HumanHasWentToBriefing   Kind = "human_has_went_to_briefing"
	HumanHasSelectedAirfield Kind = "human_has_selected_airfield"
)

// Verb is the predicate of a subject/verb kind such as
// "ai_aircraft_has_landed" or "human_aircraft_was_shot_down_by_moving_unit".
type Verb string

// Verbs without an attacker.
const (
	HasSpawned              Verb = "has_spawned"
	HasTookOff              Verb = "has_took_off"
	HasLanded               Verb = "has_landed"
	HasCrashed              Verb = "has_crashed"
	HasDespawned            Verb = "has_despawned"
	WasDamagedOnGround      Verb = "was_damaged_on_ground"
	HasToggledLandingLights Verb = "has_toggled_landing_lights"
	HasToggledWingtipSmokes Verb = "has_toggled_wingtip_smokes"
	WasDamagedBySelf        Verb = "was_damaged_by_self"
	WasDestroyedBySelf      Verb = "was_destroyed_by_self"
	HasOccupiedSeat         Verb = "has_occupied_seat"
	HasBailedOut            Verb = "has_bailed_out"
	HasOpenedParachute      Verb = "has_opened_parachute"
	WasWounded              Verb = "was_wounded"
	WasHeavilyWounded       Verb = "was_heavily_wounded"
	WasCaptured             Verb = "was_captured"
	WasKilled               Verb = "was_killed"
)

// Verbs that name an attacker.
const (
	WasDamagedBy            Verb = "was_damaged_by"
	WasShotDownBy           Verb = "was_shot_down_by"
	WasKilledBy             Verb = "was_killed_by"
	WasKilledInParachuteBy  Verb = "was_killed_in_parachute_by"
	HadParachuteDestroyedBy Verb = "had_parachute_destroyed_by"
	WasDestroyedBy          Verb = "was_destroyed_by"
)

// Of returns the kind "<subject>_<verb>".
func Of(subject ActorKind, v Verb) Kind {
	return Kind(subject.String() + "_" + string(v))
}

// By returns the kind "<subject>_<verb>_<attacker>".
func By(subject ActorKind, v Verb, attacker ActorKind) Kind {
	return Kind(subject.String() + "_" + string(v) + "_" + attacker.String())
}

// ByPair returns the kind "<subject>_<verb>_<attacker>_and_<assistant>".
func ByPair(subject ActorKind, v Verb, attacker, assistant ActorKind) Kind {
	return Kind(subject.String() + "_" + string(v) + "_" + attacker.String() + "_and_" + assistant.String())
}

// Roles describes the actor shapes a kind carries. Priority ordering of rules is
// derived from it.
type Roles struct {
	Kind      Kind
	Verb      Verb
	Actor     ActorKind
	Attacker  ActorKind
	Assistant ActorKind
}

// AircraftKinds are the shapes that can take off, land and be shot down.
func AircraftKinds() []ActorKind {
	return []ActorKind{ActorHumanAircraft, ActorAIAircraft}
}

// CrewKinds are the crew member shapes.
func CrewKinds() []ActorKind {
	return []ActorKind{ActorHumanCrewMember, ActorAICrewMember}
}

// AttackerKinds are the shapes that can damage or destroy something.
func AttackerKinds() []ActorKind {
	return []ActorKind{
		ActorHumanAircraft,
		ActorAIAircraft,
		ActorStationaryUnit,
		ActorMovingUnit,
		ActorMovingUnitMember,
	}
}

// ObjectKinds are the world objects that can be destroyed.
func ObjectKinds() []ActorKind {
	return []ActorKind{
		ActorBuilding,
		ActorTree,
		ActorBridge,
		ActorStationaryUnit,
		ActorMovingUnit,
		ActorMovingUnitMember,
	}
}

// AircraftVerbs are the attacker-less verbs shared by human and AI aircraft.
func AircraftVerbs() []Verb {
	return []Verb{
		HasTookOff, HasLanded, HasCrashed, WasDamagedOnGround,
		HasToggledLandingLights, HasToggledWingtipSmokes,
		WasDamagedBySelf, WasDestroyedBySelf,
	}
}

// CrewVerbs are the attacker-less verbs shared by human and AI crew members.
func CrewVerbs() []Verb {
	return []Verb{HasBailedOut, HasOpenedParachute, WasWounded, WasHeavilyWounded, WasCaptured, WasKilled}
}

// CrewAttackVerbs are the crew verbs that name an attacker.
func CrewAttackVerbs() []Verb {
	return []Verb{WasKilledBy, WasKilledInParachuteBy, HadParachuteDestroyedBy}
}

// catalog holds every kind the default rule set can produce.
var catalog = buildCatalog()

var catalogByKind = func() map[Kind]Roles {
	m := make(map[Kind]Roles, len(catalog))
	for _, s := range catalog {
		m[s.Kind] = s
	}
	return m
}()

func buildCatalog() []Roles {
	specs := []Roles{
		{Kind: MissionIsPlaying},
		{Kind: MissionHasBegun},
		{Kind: MissionHasEnded},
		{Kind: MissionWasWon},
		{Kind: TargetStateWasChanged},
		{Kind: HumanHasConnected},
		{Kind: HumanHasDisconnected},
		{Kind: HumanHasWentToBriefing},
		{Kind: HumanHasSelectedAirfield},
		{Kind: Of(ActorHumanAircraft, HasSpawned), Verb: HasSpawned, Actor: ActorHumanAircraft},
		{Kind: Of(ActorAIAircraft, HasDespawned), Verb: HasDespawned, Actor: ActorAIAircraft},
		{Kind: Of(ActorHumanCrewMember, HasOccupiedSeat), Verb: HasOccupiedSeat, Actor: ActorHumanCrewMember},
	}

	for _, a := range AircraftKinds() {
		for _, v := range AircraftVerbs() {
			specs = append(specs, Roles{Kind: Of(a, v), Verb: v, Actor: a})
		}
		for _, v := range []Verb{WasDamagedBy, WasShotDownBy} {
			for _, x := range AttackerKinds() {
				specs = append(specs, Roles{Kind: By(a, v, x), Verb: v, Actor: a, Attacker: x})
			}
		}
		for _, x := range AttackerKinds() {
			for _, y := range AttackerKinds() {
				specs = append(specs, Roles{
					Kind:      ByPair(a, WasShotDownBy, x, y),
					Verb:      WasShotDownBy,
					Actor:     a,
					Attacker:  x,
					Assistant: y,
				})
			}
		}
	}

	for _, c := range CrewKinds() {
		for _, v := range CrewVerbs() {
			specs = append(specs, Roles{Kind: Of(c, v), Verb: v, Actor: c})
		}
		for _, v := range CrewAttackVerbs() {
			for _, x := range AttackerKinds() {
				specs = append(specs, Roles{Kind: By(c, v, x), Verb: v, Actor: c, Attacker: x})
			}
		}
	}

	for _, o := range ObjectKinds() {
		for _, x := range AttackerKinds() {
			specs = append(specs, Roles{Kind: By(o, WasDestroyedBy, x), Verb: WasDestroyedBy, Actor: o, Attacker: x})
		}
	}

	return specs
}

// RolesOf returns the catalog entry of k.
func RolesOf(k Kind) (Roles, bool) {
	s, ok := catalogByKind[k]
	return s, ok
}

// Kinds returns every known kind in catalog order.
func Kinds() []Kind {
	kinds := make([]Kind, len(catalog))
	for i, s := range catalog {
		kinds[i] = s.Kind
	}
	return kinds
}

// KindNames returns a sorted list of all valid kind names.
func KindNames() []string {
	names := make([]string, len(catalog))
	for i, s := range catalog {
		names[i] = string(s.Kind)
	}
	sort.Strings(names)
	return names
}

// ParseKind converts a string to Kind if valid.
// It is case-insensitive and trims leading/trailing whitespace.
func ParseKind(name string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	_, ok := catalogByKind[k]
	return k, ok
}
