package event

import (
	"fmt"
	"strings"
)

// Belligerent is an army side as numbered by the game server.
type Belligerent int

const (
	BelligerentNone Belligerent = iota
	BelligerentRed
	BelligerentBlue
	BelligerentGreen
	BelligerentGold
	BelligerentPurple
	BelligerentAqua
	BelligerentMaroon
	BelligerentNavy
	BelligerentEmerald
	BelligerentOlive
	BelligerentSand
	BelligerentSkyblue
	BelligerentViolet
	BelligerentYellow
	BelligerentWhite
	BelligerentBlack
)

var belligerentNames = [...]string{
	"none", "red", "blue", "green", "gold", "purple", "aqua", "maroon",
	"navy", "emerald", "olive", "sand", "skyblue", "violet", "yellow",
	"white", "black",
}

var belligerentByName = func() map[string]Belligerent {
	m := make(map[string]Belligerent, len(belligerentNames))
	for i, name := range belligerentNames {
		m[name] = Belligerent(i)
	}
	return m
}()

// ParseBelligerent looks up an army name case-insensitively ("RED", "Red").
func ParseBelligerent(name string) (Belligerent, bool) {
	b, ok := belligerentByName[strings.ToLower(name)]
	return b, ok
}

// String returns the canonical lowercase name.
func (b Belligerent) String() string {
	if b < 0 || int(b) >= len(belligerentNames) {
		return fmt.Sprintf("belligerent(%d)", int(b))
	}
	return belligerentNames[b]
}

// MarshalText implements encoding.TextMarshaler.
func (b Belligerent) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}
