package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/il2log/il2log-go/pkg/il2log"
	"github.com/il2log/il2log-go/pkg/il2log/event"
	"github.com/il2log/il2log-go/pkg/il2log/session"
)

func mustParse(t *testing.T, lines ...string) []event.Event {
	t.Helper()
	var out []event.Event
	for _, line := range lines {
		ev, err := il2log.ParseLine(line)
		require.NoError(t, err, line)
		require.NotNil(t, ev, line)
		out = append(out, *ev)
	}
	return out
}

func TestAccumulator_Scenario(t *testing.T) {
	events := mustParse(t,
		"[Sep 15, 2013 8:33:05 PM] Mission: PH.mis is Playing",
		"[8:33:10 PM] User0 has connected",
		"[8:33:15 PM] User0:Pe-8 in flight at 100.0 200.99",
		"[8:34:00 PM] User0:Pe-8 landed at 150.0 250.0",
		"[8:34:05 PM] Mission END",
	)

	acc := session.New()
	for _, ev := range events {
		acc.Add(ev)
	}

	missions := acc.Missions()
	require.Len(t, missions, 1)
	m := missions[0]
	assert.Equal(t, "PH.mis", m.Name)
	assert.Equal(t, "2013-09-15", m.Date.String())
	assert.Equal(t, "20:33:05", m.Started.String())
	require.NotNil(t, m.Ended)
	assert.Equal(t, "20:34:05", m.Ended.String())

	assert.Equal(t, []string{"User0"}, m.Callsigns())
	require.Len(t, m.Players["User0"], 2)
	assert.Equal(t, event.Of(event.ActorHumanAircraft, event.HasTookOff), m.Players["User0"][0].Kind)
	assert.Equal(t, event.Of(event.ActorHumanAircraft, event.HasLanded), m.Players["User0"][1].Kind)

	require.Len(t, m.Events, 1)
	assert.Equal(t, event.HumanHasConnected, m.Events[0].Kind)
	assert.Equal(t, 3, m.Len())
	assert.Nil(t, acc.Current())
}

func TestAccumulator_DiscardsOutsideMission(t *testing.T) {
	events := mustParse(t,
		"[8:33:00 PM] User0 has connected",
		"[8:33:01 PM] Mission END",
		"[Sep 15, 2013 8:33:05 PM] Mission: PH.mis is Playing",
		"[8:33:15 PM] r01000 in flight at 1 2",
		"[8:34:05 PM] Mission END",
		"[8:34:10 PM] User0 has disconnected",
	)

	acc := session.New()
	for _, ev := range events {
		acc.Add(ev)
	}

	require.Len(t, acc.Missions(), 1)
	m := acc.Missions()[0]
	assert.Empty(t, m.Players)
	require.Len(t, m.Events, 1)
	assert.Equal(t, event.AIAircraft{Flight: "r010", Index: 0}, m.Events[0].Actor)
	assert.Equal(t, 3, acc.Dropped())
}

func TestAccumulator_CrewAndOpenMission(t *testing.T) {
	events := mustParse(t,
		"[Sep 15, 2013 8:33:05 PM] Mission: A.mis is Playing",
		"[8:33:15 PM] User0:Pe-8(1) bailed out at 1 2",
		"[Sep 15, 2013 9:00:00 PM] Mission: B.mis is Playing",
		"[9:00:15 PM] User1:Yak-1 crashed at 1 2",
	)

	acc := session.New()
	for _, ev := range events {
		acc.Add(ev)
	}

	missions := acc.Missions()
	require.Len(t, missions, 2)
	assert.Equal(t, "A.mis", missions[0].Name)
	assert.Nil(t, missions[0].Ended)
	assert.Len(t, missions[0].Players["User0"], 1)

	assert.Equal(t, "B.mis", missions[1].Name)
	assert.Same(t, missions[1], acc.Current())
	assert.Equal(t, []string{"User1"}, missions[1].Callsigns())
}

func TestCollect(t *testing.T) {
	input := strings.Join([]string{
		"[Sep 15, 2013 8:33:05 PM] Mission: PH.mis is Playing",
		"[8:33:15 PM] User0:Pe-8 in flight at 100.0 200.99",
		"[8:34:05 PM] Mission END",
	}, "\n")

	missions, err := session.Collect(il2log.ParseReader(context.Background(), strings.NewReader(input)))
	require.NoError(t, err)
	require.Len(t, missions, 1)
	assert.Len(t, missions[0].Players["User0"], 1)
}

func TestCollect_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	seq := func(yield func(event.Event, error) bool) {
		if !yield(event.Event{Kind: event.MissionIsPlaying, Mission: "X.mis"}, nil) {
			return
		}
		yield(event.Event{}, boom)
	}

	missions, err := session.Collect(seq)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, missions, 1)
}

func TestMission_ToMap(t *testing.T) {
	events := mustParse(t,
		"[Sep 15, 2013 8:33:05 PM] Mission: PH.mis is Playing",
		"[8:33:15 PM] User0:Pe-8 in flight at 100.0 200.99",
		"[8:34:05 PM] Mission END",
	)
	acc := session.New()
	for _, ev := range events {
		acc.Add(ev)
	}

	data, err := json.Marshal(acc.Missions()[0].ToMap())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "PH.mis", got["mission"])
	assert.Equal(t, "2013-09-15", got["date"])
	assert.Equal(t, "20:33:05", got["started"])
	assert.Equal(t, "20:34:05", got["ended"])
	assert.Empty(t, got["events"])

	players := got["players"].(map[string]any)
	list := players["User0"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "human_aircraft_has_took_off", list[0].(map[string]any)["kind"])
}
