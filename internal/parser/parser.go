// Package parser holds the default IL-2 server event log grammar.
package parser

import (
	"github.com/il2log/il2log-go/pkg/il2log/event"
	"github.com/il2log/il2log-go/pkg/il2log/grammar"
)

var (
	lit = grammar.Lit
	at  = grammar.PositionSuffix
	ts  = grammar.TimePrefix
	dts = grammar.DateTimePrefix
)

func actor(k event.ActorKind) grammar.Fragment {
	return grammar.ActorFragment(k, grammar.RoleActor)
}

func attacker(k event.ActorKind) grammar.Fragment {
	return grammar.ActorFragment(k, grammar.RoleAttacker)
}

func assistant(k event.ActorKind) grammar.Fragment {
	return grammar.ActorFragment(k, grammar.RoleAssistant)
}

// Rules builds the default rule table, one rule per event kind, in catalog
// order. The table is not priority sorted; callers sort it before
// registration.
func Rules() []*grammar.Rule {
	var rules []*grammar.Rule
	add := func(kind event.Kind, parts ...grammar.Fragment) {
		rules = append(rules, grammar.MustRule(kind, parts...))
	}

	// Mission flow.
	// "[Sep 15, 2013 8:33:05 PM] Mission: PH.mis is Playing"
	add(event.MissionIsPlaying, dts(), lit("Mission: "), grammar.Capture("mission", ".+"), lit(" is Playing"))
	add(event.MissionHasBegun, ts(), lit("Mission BEGIN"))
	add(event.MissionHasEnded, ts(), lit("Mission END"))
	// "[Sep 15, 2013 8:33:05 PM] Mission: RED WON"
	add(event.MissionWasWon, dts(), lit("Mission: "), belligerent(), lit(" WON"))
	// "[8:33:05 PM] Target 3 Complete"
	add(event.TargetStateWasChanged, ts(),
		lit("Target "),
		grammar.Capture("target_index", "{INT}", grammar.ToInt("target_index")),
		lit(" "),
		grammar.Capture("complete", "{TARGET_RESULT}", grammar.ToTargetResult("complete")),
	)

	// Connection.
	callsign := grammar.Capture("callsign", "{TOKEN}")
	add(event.HumanHasConnected, ts(), callsign, lit(" has connected"))
	add(event.HumanHasDisconnected, ts(), callsign, lit(" has disconnected"))
	add(event.HumanHasWentToBriefing, ts(), callsign, lit(" entered refly menu"))
	// "[8:33:05 PM] User0 selected army Red at 100.0 200.99"
	add(event.HumanHasSelectedAirfield, ts(), callsign, lit(" selected army "), belligerent(), at())

	// "[8:33:05 PM] User0:Pe-8 loaded weapons '40fab100' fuel 100%"
	add(event.Of(event.ActorHumanAircraft, event.HasSpawned), ts(),
		actor(event.ActorHumanAircraft),
		lit(" loaded weapons '"),
		grammar.Capture("weapons", ".+"),
		lit("' fuel "),
		grammar.Capture("fuel", "{INT}", grammar.ToInt("fuel")),
		lit("%"),
	)
	add(event.Of(event.ActorAIAircraft, event.HasDespawned), ts(),
		actor(event.ActorAIAircraft), lit(verbText[event.HasDespawned]), at())
	add(event.Of(event.ActorHumanCrewMember, event.HasOccupiedSeat), ts(),
		actor(event.ActorHumanCrewMember), lit(verbText[event.HasOccupiedSeat]), callsign, at())

	for _, a := range event.AircraftKinds() {
		for _, v := range event.AircraftVerbs() {
			add(event.Of(a, v), ts(), actor(a), lit(verbText[v]), verbTail(v), at())
		}
		for _, v := range []event.Verb{event.WasDamagedBy, event.WasShotDownBy} {
			for _, x := range event.AttackerKinds() {
				add(event.By(a, v, x), ts(), actor(a), lit(verbText[v]), attacker(x), at())
			}
		}
		for _, x := range event.AttackerKinds() {
			for _, y := range event.AttackerKinds() {
				add(event.ByPair(a, event.WasShotDownBy, x, y), ts(),
					actor(a), lit(verbText[event.WasShotDownBy]), attacker(x), lit(" and "), assistant(y), at())
			}
		}
	}

	for _, c := range event.CrewKinds() {
		for _, v := range event.CrewVerbs() {
			add(event.Of(c, v), ts(), actor(c), lit(verbText[v]), at())
		}
		for _, v := range event.CrewAttackVerbs() {
			for _, x := range event.AttackerKinds() {
				add(event.By(c, v, x), ts(), actor(c), lit(verbText[v]), attacker(x), at())
			}
		}
	}

	for _, o := range event.ObjectKinds() {
		for _, x := range event.AttackerKinds() {
			add(event.By(o, event.WasDestroyedBy, x), ts(),
				actor(o), lit(verbText[event.WasDestroyedBy]), attacker(x), at())
		}
	}

	return rules
}

func belligerent() grammar.Fragment {
	return grammar.Capture("belligerent", "{TOKEN}", grammar.ToBelligerent("belligerent"))
}

// verbTail is the part of an aircraft verb between its text and the position.
func verbTail(v event.Verb) grammar.Fragment {
	switch v {
	case event.HasToggledLandingLights, event.HasToggledWingtipSmokes:
		return grammar.Capture("enabled", "{TOGGLE}", grammar.ToToggle("enabled"))
	case event.WasDamagedBySelf, event.WasDestroyedBySelf:
		return grammar.Self()
	}
	return grammar.Fragment{}
}
