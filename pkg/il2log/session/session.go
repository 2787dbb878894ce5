// Package session folds a stream of events into per-mission groupings.
//
// A mission opens on mission_is_playing and closes on mission_has_ended.
// Events between the two are filed under the callsign of their actor when
// the actor is player controlled, and in the mission's general list
// otherwise. Events outside an open mission are discarded.
package session

import (
	"io"
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/il2log/il2log-go/pkg/il2log/event"
)

// Mission is one played mission.
type Mission struct {
	Name    string
	Date    event.Date
	Started event.Clock
	Ended   *event.Clock // nil while the mission is open or if it never ended

	// Events holds in-mission events without a player actor.
	Events []event.Event

	// Players holds in-mission events keyed by the actor's callsign.
	Players map[string][]event.Event
}

// Callsigns returns the players seen in the mission, sorted.
func (m *Mission) Callsigns() []string {
	return slices.Sorted(maps.Keys(m.Players))
}

// Len returns the number of events filed in the mission.
func (m *Mission) Len() int {
	n := len(m.Events)
	for _, evs := range m.Players {
		n += len(evs)
	}
	return n
}

// ToMap converts the mission to plain maps, with events serialized by
// event.ToMap.
func (m *Mission) ToMap() map[string]any {
	out := map[string]any{
		"mission": m.Name,
		"date":    m.Date.String(),
		"started": m.Started.String(),
	}
	if m.Ended != nil {
		out["ended"] = m.Ended.String()
	}

	general := make([]map[string]any, len(m.Events))
	for i := range m.Events {
		general[i] = event.ToMap(&m.Events[i])
	}
	out["events"] = general

	players := make(map[string]any, len(m.Players))
	for cs, evs := range m.Players {
		list := make([]map[string]any, len(evs))
		for i := range evs {
			list[i] = event.ToMap(&evs[i])
		}
		players[cs] = list
	}
	out["players"] = players
	return out
}

// Option configures an Accumulator.
type Option func(*Accumulator)

// WithLogger sets a logger for debug output about discarded events.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(a *Accumulator) {
		if logger != nil {
			a.log = logger
		}
	}
}

// Accumulator groups events into missions. It is not safe for concurrent
// use.
type Accumulator struct {
	missions []*Mission
	current  *Mission
	dropped  int
	log      *slog.Logger
}

// New returns an empty Accumulator.
func New(opts ...Option) *Accumulator {
	a := &Accumulator{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Add folds ev into the current mission.
func (a *Accumulator) Add(ev event.Event) {
	switch ev.Kind {
	case event.MissionIsPlaying:
		if a.current != nil {
			a.log.Debug("mission replaced before it ended", "mission", a.current.Name)
		}
		m := &Mission{
			Name:    ev.Mission,
			Started: ev.Time,
			Players: make(map[string][]event.Event),
		}
		if ev.Date != nil {
			m.Date = *ev.Date
		}
		a.missions = append(a.missions, m)
		a.current = m
		return

	case event.MissionHasEnded:
		if a.current == nil {
			a.dropped++
			return
		}
		end := ev.Time
		a.current.Ended = &end
		a.current = nil
		return
	}

	if a.current == nil {
		a.dropped++
		a.log.Debug("event outside mission", "kind", ev.Kind)
		return
	}
	if cs, ok := event.CallsignOf(ev.Actor); ok {
		a.current.Players[cs] = append(a.current.Players[cs], ev)
		return
	}
	a.current.Events = append(a.current.Events, ev)
}

// Missions returns every mission seen so far, including an open one, in
// the order they started.
func (a *Accumulator) Missions() []*Mission {
	return slices.Clone(a.missions)
}

// Current returns the open mission, or nil.
func (a *Accumulator) Current() *Mission {
	return a.current
}

// Dropped returns the number of events discarded because no mission was
// open.
func (a *Accumulator) Dropped() int {
	return a.dropped
}

// Collect folds every event of seq. It stops at the first error and
// returns the missions gathered up to that point with it.
func Collect(seq iter.Seq2[event.Event, error], opts ...Option) ([]*Mission, error) {
	a := New(opts...)
	for ev, err := range seq {
		if err != nil {
			return a.Missions(), err
		}
		a.Add(ev)
	}
	return a.Missions(), nil
}
