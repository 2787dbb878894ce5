package parser

import (
	"strings"

	"github.com/il2log/il2log-go/pkg/il2log/event"
)

// NoiseMarkers are substrings of lines that look like events but carry no
// information: a tree line destroyed with nothing named as the cause.
// Lines containing them are dropped before any rule is tried.
var NoiseMarkers = []string{
	"3do/Tree/Line_W/live.sim destroyed by at",
	"3do/Tree/Line_W/mono.sim destroyed by at",
}

// IsNoise reports whether line contains one of NoiseMarkers.
func IsNoise(line string) bool {
	for _, m := range NoiseMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// Body text following the actor token, before any attacker or position.
var verbText = map[event.Verb]string{
	// Matches: "User0:Pe-8 in flight at 100.0 200.99"
	event.HasTookOff: " in flight",
	event.HasLanded:  " landed",
	event.HasCrashed: " crashed",
	// Matches: "r01000 removed at 100.0 200.99"
	event.HasDespawned:       " removed",
	event.WasDamagedOnGround: " damaged on the ground",
	// Followed by "on" or "off"
	event.HasToggledLandingLights: " turned landing lights ",
	event.HasToggledWingtipSmokes: " turned wingtip smokes ",
	// Followed by "landscape" or "NONAME"
	event.WasDamagedBySelf:   " damaged by ",
	event.WasDestroyedBySelf: " shot down by ",

	// Matches: "User0:Pe-8(0) seat occupied by User0 at 100.0 200.99"
	event.HasOccupiedSeat:    " seat occupied by ",
	event.HasBailedOut:       " bailed out",
	event.HasOpenedParachute: " successfully bailed out",
	event.WasWounded:         " was wounded",
	event.WasHeavilyWounded:  " was heavily wounded",
	event.WasCaptured:        " was captured",
	event.WasKilled:          " was killed",

	event.WasDamagedBy:  " damaged by ",
	event.WasShotDownBy: " shot down by ",
	// Matches: "r01000(1) was killed by 0_Chief2 at 100.0 200.99"
	event.WasKilledBy:             " was killed by ",
	event.WasKilledInParachuteBy:  " was killed in his chute by ",
	event.HadParachuteDestroyedBy: " has chute destroyed by ",
	// Matches: "3do/Buildings/Finland/CenterHouse1_w/live.sim destroyed by User0:Pe-8 at 100.0 200.99"
	event.WasDestroyedBy: " destroyed by ",
}
