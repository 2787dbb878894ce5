package parser

import (
	"strings"

	"github.com/il2log/il2log-go/pkg/il2log/event"
)

// sampleTokens are log tokens for each actor shape, paired with the actor
// value they parse to.
var sampleTokens = map[event.ActorKind]struct {
	text  string
	actor event.Actor
}{
	event.ActorHumanAircraft:    {"User0:Pe-8", event.HumanAircraft{Callsign: "User0", Aircraft: "Pe-8"}},
	event.ActorHumanCrewMember:  {"User0:Pe-8(0)", event.HumanAircraftCrewMember{Callsign: "User0", Aircraft: "Pe-8", Seat: 0}},
	event.ActorAIAircraft:       {"r01000", event.AIAircraft{Flight: "r010", Index: 0}},
	event.ActorAICrewMember:     {"r01001(2)", event.AIAircraftCrewMember{Flight: "r010", Index: 1, Seat: 2}},
	event.ActorStationaryUnit:   {"0_Static", event.StationaryUnit{ID: "0_Static"}},
	event.ActorMovingUnit:       {"1_Chief", event.MovingUnit{ID: "1_Chief"}},
	event.ActorMovingUnitMember: {"1_Chief3", event.MovingUnitMember{UnitID: "1_Chief", Member: 3}},
	event.ActorBuilding:         {"3do/Buildings/Finland/CenterHouse1_w/live.sim", event.Building{Name: "Finland/CenterHouse1_w"}},
	event.ActorBridge:           {"Bridge159", event.Bridge{ID: "Bridge159"}},
	event.ActorTree:             {"3do/Tree/Line_W/live.sim", event.Tree{}},
}

var fixedSamples = map[event.Kind]string{
	event.MissionIsPlaying:         "[Sep 15, 2013 8:33:05 PM] Mission: PH.mis is Playing",
	event.MissionHasBegun:          "[8:33:05 PM] Mission BEGIN",
	event.MissionHasEnded:          "[8:33:05 PM] Mission END",
	event.MissionWasWon:            "[Sep 15, 2013 8:33:05 PM] Mission: RED WON",
	event.TargetStateWasChanged:    "[8:33:05 PM] Target 3 Complete",
	event.HumanHasConnected:        "[8:33:05 PM] User0 has connected",
	event.HumanHasDisconnected:     "[8:33:05 PM] User0 has disconnected",
	event.HumanHasWentToBriefing:   "[8:33:05 PM] User0 entered refly menu",
	event.HumanHasSelectedAirfield: "[8:33:05 PM] User0 selected army Red at 100.0 200.99",

	event.Of(event.ActorHumanAircraft, event.HasSpawned): "[8:33:05 PM] User0:Pe-8 loaded weapons 'default' fuel 100%",
}

// SampleActor returns the actor value of the sample token used by
// SampleLine for shape k.
func SampleActor(k event.ActorKind) event.Actor {
	return sampleTokens[k].actor
}

// SampleLine returns an example log line for kind, all timed 8:33:05 PM.
func SampleLine(kind event.Kind) (string, bool) {
	if line, ok := fixedSamples[kind]; ok {
		return line, true
	}
	roles, ok := event.RolesOf(kind)
	if !ok || roles.Actor == event.NoActor {
		return "", false
	}

	var b strings.Builder
	b.WriteString("[8:33:05 PM] ")
	b.WriteString(sampleTokens[roles.Actor].text)
	b.WriteString(verbText[roles.Verb])
	switch roles.Verb {
	case event.HasToggledLandingLights:
		b.WriteString("on")
	case event.HasToggledWingtipSmokes:
		b.WriteString("off")
	case event.WasDamagedBySelf:
		b.WriteString("landscape")
	case event.WasDestroyedBySelf:
		b.WriteString("NONAME")
	case event.HasOccupiedSeat:
		b.WriteString("User0")
	}
	if roles.Attacker != event.NoActor {
		b.WriteString(sampleTokens[roles.Attacker].text)
	}
	if roles.Assistant != event.NoActor {
		b.WriteString(" and ")
		b.WriteString(sampleTokens[roles.Assistant].text)
	}
	b.WriteString(" at 100.0 200.99")
	return b.String(), true
}
