// Package event defines the Event record produced by the IL-2 log parser.
//
// This package is separated from the main il2log package to avoid import cycles
// between pkg/il2log, pkg/il2log/grammar and internal/parser.
package event

import (
	"fmt"
	"time"
)

// Kind identifies the shape of log line an Event was parsed from.
type Kind string

// Clock layouts used by the server log prefix: "[8:33:05 PM]" and "[Sep 15, 2013 8:33:05 PM]".
const (
	ClockLayout = "3:04:05 PM"
	DateLayout  = "Jan 2, 2006"
)

// Clock is a wall-clock time of day as printed in the log prefix.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

// ParseClock parses "8:33:05 PM" style text.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return Clock{}, err
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

// String returns the ISO-8601 time, e.g. "20:33:05".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// MarshalText implements encoding.TextMarshaler.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Date is a calendar day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses "Sep 15, 2013" style text.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// String returns the ISO-8601 date, e.g. "2013-09-15".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Point is a 2D map position in meters.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Event represents a parsed server log event.
//
// Fields other than Kind and Time are only set when the event's log line
// carries them; optional scalars are pointers so that a zero value can be
// told apart from an absent one.
type Event struct {
	// Kind is the event kind.
	Kind Kind `json:"kind"`

	// Time is the wall-clock time from the line prefix.
	Time Clock `json:"time"`

	// Date is set for mission boundary events that carry a full date prefix.
	Date *Date `json:"date,omitempty"`

	// Mission is the mission file path (mission_is_playing).
	Mission string `json:"mission,omitempty"`

	// Callsign is the human player for connection events and seat occupation.
	Callsign string `json:"callsign,omitempty"`

	// Belligerent is the army for mission_was_won and airfield selection.
	Belligerent *Belligerent `json:"belligerent,omitempty"`

	// Actor is the entity the event happened to.
	Actor Actor `json:"actor,omitempty"`

	// Attacker is the entity that caused the event.
	Attacker Actor `json:"attacker,omitempty"`

	// Assistant is a secondary contributing cause.
	Assistant Actor `json:"assistant,omitempty"`

	// Weapons is the loadout name of a spawned aircraft.
	Weapons string `json:"weapons,omitempty"`

	// Fuel is the fuel load of a spawned aircraft, in percent.
	Fuel *int `json:"fuel,omitempty"`

	// Enabled is the new state of a toggled device (landing lights, smokes).
	Enabled *bool `json:"enabled,omitempty"`

	// TargetIndex and Complete describe a target state change.
	TargetIndex *int  `json:"target_index,omitempty"`
	Complete    *bool `json:"complete,omitempty"`

	// Pos is the position suffix of the line.
	Pos *Point `json:"pos,omitempty"`

	// RawLine is the original log line (only included if requested).
	RawLine string `json:"raw_line,omitempty"`
}
