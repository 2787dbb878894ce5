package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/il2log/il2log-go/pkg/il2log/event"
)

// validFormats lists all valid output formats.
var validFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
}

// OutputEvent writes an event in the specified format to the writer.
func OutputEvent(format string, ev event.Event, out io.Writer) error {
	switch format {
	case "jsonl":
		return OutputJSON(ev, out)
	case "pretty":
		return OutputPretty(ev, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputJSON writes an event as one JSON line of its plain-map form.
func OutputJSON(ev event.Event, out io.Writer) error {
	data, err := json.Marshal(event.ToMap(&ev))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

var (
	missionColor = color.New(color.FgCyan, color.Bold)
	joinColor    = color.New(color.FgGreen)
	leaveColor   = color.New(color.FgYellow)
	combatColor  = color.New(color.FgRed)
	plainColor   = color.New()
)

// OutputPretty writes an event in human-readable form.
func OutputPretty(ev event.Event, out io.Writer) error {
	ts := ev.Time.String()

	var err error
	switch ev.Kind {
	case event.MissionIsPlaying:
		_, err = missionColor.Fprintf(out, "[%s] = Mission %s is playing%s\n", ts, ev.Mission, dateSuffix(ev.Date))
	case event.MissionHasBegun:
		_, err = missionColor.Fprintf(out, "[%s] = Mission begin\n", ts)
	case event.MissionHasEnded:
		_, err = missionColor.Fprintf(out, "[%s] = Mission end\n", ts)
	case event.MissionWasWon:
		_, err = missionColor.Fprintf(out, "[%s] = %s won%s\n", ts, belligerentName(ev.Belligerent), dateSuffix(ev.Date))
	case event.TargetStateWasChanged:
		state := "failed"
		if ev.Complete != nil && *ev.Complete {
			state = "complete"
		}
		_, err = missionColor.Fprintf(out, "[%s] = Target %d %s\n", ts, derefInt(ev.TargetIndex), state)
	case event.HumanHasConnected:
		_, err = joinColor.Fprintf(out, "[%s] + %s connected\n", ts, ev.Callsign)
	case event.HumanHasDisconnected:
		_, err = leaveColor.Fprintf(out, "[%s] - %s disconnected\n", ts, ev.Callsign)
	case event.HumanHasWentToBriefing:
		_, err = plainColor.Fprintf(out, "[%s] * %s went to briefing\n", ts, ev.Callsign)
	case event.HumanHasSelectedAirfield:
		_, err = plainColor.Fprintf(out, "[%s] * %s selected %s%s\n", ts, ev.Callsign, belligerentName(ev.Belligerent), fieldSuffix(ev))
	default:
		err = outputActorEvent(ev, ts, out)
	}
	return err
}

func outputActorEvent(ev event.Event, ts string, out io.Writer) error {
	roles, ok := event.RolesOf(ev.Kind)
	if !ok || ev.Actor == nil {
		_, err := plainColor.Fprintf(out, "[%s] * %s%s\n", ts, ev.Kind, fieldSuffix(ev))
		return err
	}

	var sb strings.Builder
	sb.WriteString(actorText(ev.Actor))
	sb.WriteByte(' ')
	sb.WriteString(strings.ReplaceAll(string(roles.Verb), "_", " "))
	if ev.Attacker != nil {
		sb.WriteByte(' ')
		sb.WriteString(actorText(ev.Attacker))
	}
	if ev.Assistant != nil {
		sb.WriteString(" and ")
		sb.WriteString(actorText(ev.Assistant))
	}

	c := plainColor
	if roles.Attacker != event.NoActor {
		c = combatColor
	}
	_, err := c.Fprintf(out, "[%s] > %s%s\n", ts, sb.String(), fieldSuffix(ev))
	return err
}

// actorText renders an actor close to its log token.
func actorText(a event.Actor) string {
	switch v := a.(type) {
	case event.HumanAircraft:
		return v.Callsign + ":" + v.Aircraft
	case event.HumanAircraftCrewMember:
		return fmt.Sprintf("%s:%s(%d)", v.Callsign, v.Aircraft, v.Seat)
	case event.AIAircraft:
		return fmt.Sprintf("%s%02d", v.Flight, v.Index)
	case event.AIAircraftCrewMember:
		return fmt.Sprintf("%s%02d(%d)", v.Flight, v.Index, v.Seat)
	case event.StationaryUnit:
		return v.ID
	case event.MovingUnit:
		return v.ID
	case event.MovingUnitMember:
		return v.UnitID + strconv.Itoa(v.Member)
	case event.Building:
		return "building " + v.Name
	case event.Bridge:
		return v.ID
	case event.Tree:
		return "tree"
	}
	return "?"
}

func belligerentName(b *event.Belligerent) string {
	if b == nil {
		return "?"
	}
	return b.String()
}

func dateSuffix(d *event.Date) string {
	if d == nil {
		return ""
	}
	return " (" + d.String() + ")"
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// fieldSuffix renders the scalar fields of ev as " key=value ...".
func fieldSuffix(ev event.Event) string {
	data := make(map[string]string)
	if ev.Weapons != "" {
		data["weapons"] = ev.Weapons
	}
	if ev.Fuel != nil {
		data["fuel"] = strconv.Itoa(*ev.Fuel) + "%"
	}
	if ev.Enabled != nil {
		data["enabled"] = strconv.FormatBool(*ev.Enabled)
	}
	if ev.Pos != nil {
		data["pos"] = strconv.FormatFloat(ev.Pos.X, 'f', -1, 64) + "," + strconv.FormatFloat(ev.Pos.Y, 'f', -1, 64)
	}
	if len(data) == 0 {
		return ""
	}
	return " " + formatData(data)
}

// formatData formats a map as sorted key=value pairs.
// Values are quoted if they contain spaces, equals signs, quotes, or control characters.
func formatData(data map[string]string) string {
	if len(data) == 0 {
		return ""
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(data))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", quoteIfNeeded(k), quoteIfNeeded(data[k])))
	}
	return strings.Join(parts, " ")
}

// quoteIfNeeded quotes a value if it contains special characters or control characters.
func quoteIfNeeded(v string) string {
	if v == "" {
		return `""`
	}
	if !strings.ContainsFunc(v, func(c rune) bool {
		return c == ' ' || c == '=' || c == '"' || c == '\\' || c < 0x20 || c == 0x7F
	}) {
		return v
	}
	return strconv.Quote(v)
}
