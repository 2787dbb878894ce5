package il2log_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/il2log/il2log-go/pkg/il2log"
	"github.com/il2log/il2log-go/pkg/il2log/event"
	"github.com/il2log/il2log-go/pkg/il2log/grammar"
)

func TestScore(t *testing.T) {
	tests := []struct {
		kind event.Kind
		want int
	}{
		{event.MissionHasBegun, 0},
		{event.Of(event.ActorHumanAircraft, event.HasLanded), 1},
		{event.Of(event.ActorAIAircraft, event.HasLanded), 2},
		{event.Of(event.ActorHumanCrewMember, event.HasBailedOut), 1},
		{event.Of(event.ActorAICrewMember, event.HasBailedOut), 2},
		{event.By(event.ActorBuilding, event.WasDestroyedBy, event.ActorStationaryUnit), 0},
		{event.By(event.ActorBuilding, event.WasDestroyedBy, event.ActorHumanAircraft), 4},
		{event.By(event.ActorBuilding, event.WasDestroyedBy, event.ActorAIAircraft), 8},
		{event.By(event.ActorHumanAircraft, event.WasShotDownBy, event.ActorAIAircraft), 1 | 8},
		{event.ByPair(event.ActorAIAircraft, event.WasShotDownBy, event.ActorHumanAircraft, event.ActorAIAircraft), 2 | 4 | 32},
		{event.ByPair(event.ActorHumanAircraft, event.WasShotDownBy, event.ActorMovingUnit, event.ActorHumanAircraft), 1 | 16},
		{"not_in_catalog", 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, il2log.Score(tt.kind))
		})
	}
}

func TestSortRules_Stable(t *testing.T) {
	mk := func(kind event.Kind, body string) *grammar.Rule {
		return grammar.MustRule(kind, grammar.TimePrefix(), grammar.Lit(body))
	}
	rules := []*grammar.Rule{
		mk(event.Of(event.ActorAIAircraft, event.HasLanded), "a"),
		mk(event.MissionHasBegun, "b"),
		mk(event.Of(event.ActorHumanAircraft, event.HasLanded), "c"),
		mk(event.MissionHasEnded, "d"),
		mk(event.Of(event.ActorAIAircraft, event.HasCrashed), "e"),
	}
	il2log.SortRules(rules)

	var got []event.Kind
	for _, r := range rules {
		got = append(got, r.Kind())
	}
	assert.Equal(t, []event.Kind{
		event.MissionHasBegun,
		event.MissionHasEnded,
		event.Of(event.ActorHumanAircraft, event.HasLanded),
		event.Of(event.ActorAIAircraft, event.HasLanded),
		event.Of(event.ActorAIAircraft, event.HasCrashed),
	}, got)
}

func TestDefaultRules_Sorted(t *testing.T) {
	rules := il2log.DefaultRules()
	require.NotEmpty(t, rules)
	for i := 1; i < len(rules); i++ {
		assert.LessOrEqual(t, il2log.Score(rules[i-1].Kind()), il2log.Score(rules[i].Kind()))
	}

	// Callers get their own copy.
	rules[0] = nil
	assert.NotNil(t, il2log.DefaultRules()[0])
}

// Aircraft names ending in two digits ("P-40") make a pilot:aircraft token
// look like an AI flight code plus index. A colon in a token must select the
// human rule; its absence the AI rule.
func TestPriority_HumanBeforeAI(t *testing.T) {
	human := event.ActorHumanAircraft
	ai := event.ActorAIAircraft
	humanCrew := event.ActorHumanCrewMember
	aiCrew := event.ActorAICrewMember

	tests := []struct {
		line string
		want event.Kind
	}{
		{"[8:33:05 PM] User0:P-40 landed at 1 2", event.Of(human, event.HasLanded)},
		{"[8:33:05 PM] r01040 landed at 1 2", event.Of(ai, event.HasLanded)},
		{"[8:33:05 PM] User0:P-40 turned wingtip smokes on at 1 2", event.Of(human, event.HasToggledWingtipSmokes)},
		{"[8:33:05 PM] User0:P-40 damaged by landscape at 1 2", event.Of(human, event.WasDamagedBySelf)},
		{"[8:33:05 PM] User0:P-40(0) bailed out at 1 2", event.Of(humanCrew, event.HasBailedOut)},
		{"[8:33:05 PM] r01040(0) bailed out at 1 2", event.Of(aiCrew, event.HasBailedOut)},
		{"[8:33:05 PM] User0:P-40 shot down by User1:Yak-1 at 1 2", event.By(human, event.WasShotDownBy, human)},
		{"[8:33:05 PM] User0:P-40 shot down by r01040 at 1 2", event.By(human, event.WasShotDownBy, ai)},
		{"[8:33:05 PM] r01040 shot down by User1:P-40 at 1 2", event.By(ai, event.WasShotDownBy, human)},
		{"[8:33:05 PM] r01040 shot down by r02011 at 1 2", event.By(ai, event.WasShotDownBy, ai)},
		{"[8:33:05 PM] User0:P-40 damaged by 0_Chief12 at 1 2", event.By(human, event.WasDamagedBy, event.ActorMovingUnitMember)},
		{"[8:33:05 PM] User0:P-40(1) was killed by User1:P-40 at 1 2", event.By(humanCrew, event.WasKilledBy, human)},
		{"[8:33:05 PM] r01040(1) was killed in his chute by User1:P-40 at 1 2", event.By(aiCrew, event.WasKilledInParachuteBy, human)},
		{
			"[8:33:05 PM] User0:P-40 shot down by r01040 and User1:Yak-9T at 1 2",
			event.ByPair(human, event.WasShotDownBy, ai, human),
		},
		{
			"[8:33:05 PM] r01040 shot down by User1:P-40 and r02011 at 1 2",
			event.ByPair(ai, event.WasShotDownBy, human, ai),
		},
		{"[8:33:05 PM] 0_Static destroyed by User1:P-40 at 1 2", event.By(event.ActorStationaryUnit, event.WasDestroyedBy, human)},
		{"[8:33:05 PM] Bridge12 destroyed by r01040 at 1 2", event.By(event.ActorBridge, event.WasDestroyedBy, ai)},
	}

	reg := il2log.NewDefaultRegistry()
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ev, err := reg.Dispatch(tt.line)
			require.NoError(t, err)
			require.NotNil(t, ev)
			assert.Equal(t, tt.want, ev.Kind)
		})
	}
}

// Registering the default rules unsorted shows the ordering matters.
func TestPriority_UnsortedMisclassifies(t *testing.T) {
	ai := grammar.MustRule(event.Of(event.ActorAIAircraft, event.HasLanded),
		grammar.TimePrefix(), grammar.ActorFragment(event.ActorAIAircraft, grammar.RoleActor),
		grammar.Lit(" landed"), grammar.PositionSuffix())
	human := grammar.MustRule(event.Of(event.ActorHumanAircraft, event.HasLanded),
		grammar.TimePrefix(), grammar.ActorFragment(event.ActorHumanAircraft, grammar.RoleActor),
		grammar.Lit(" landed"), grammar.PositionSuffix())

	line := "[8:33:05 PM] User0:P-40 landed at 1 2"

	reg := il2log.NewRegistry()
	require.NoError(t, reg.Register(ai, nil))
	require.NoError(t, reg.Register(human, nil))
	ev, err := reg.Dispatch(line)
	require.NoError(t, err)
	assert.Equal(t, event.AIAircraft{Flight: "User0:P-", Index: 40}, ev.Actor)

	rules := []*grammar.Rule{ai, human}
	il2log.SortRules(rules)
	reg = il2log.NewRegistry()
	for _, r := range rules {
		require.NoError(t, reg.Register(r, nil))
	}
	ev, err = reg.Dispatch(line)
	require.NoError(t, err)
	assert.Equal(t, event.HumanAircraft{Callsign: "User0", Aircraft: "P-40"}, ev.Actor)
}
