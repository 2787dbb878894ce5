// Package grammar builds IL-2 server log rules out of reusable pattern
// fragments and converts the raw captures of a matching line into an event.
//
// Patterns use grok-style {PLACEHOLDER} references to the primitives in
// BasePatterns. A rule is a sequence of fragments; every fragment carries
// the transformations that turn its captures into typed event fields.
package grammar

import "strings"

// BasePatterns are the primitive lexical shapes of the server log.
var BasePatterns = map[string]string{
	// 8:33:05 PM
	"TIME": `\d{1,2}:\d{2}:\d{2} (?:AM|PM)`,
	// Sep 15, 2013
	"DATE": `[A-Z][a-z]{2} \d{1,2}, \d{4}`,
	// -12.5, 100
	"FLOAT": `-?\d+(?:\.\d+)?`,
	"INT":   `\d+`,
	// Any non-whitespace run.
	"TOKEN": `\S+`,
	// Shortest run before the ':' of a pilot:aircraft pair.
	"CALLSIGN":      `\S+?`,
	"AIRCRAFT":      `\S+`,
	"SEAT":          `\(\d+\)`,
	"TOGGLE":        `on|off`,
	"TARGET_RESULT": `Complete|Failed`,
	"STATIC":        `\d+_Static`,
	"CHIEF":         `\d+_Chief`,
	"BRIDGE":        `Bridge\d+`,
	"MODEL":         `(?:live|mono)\.sim`,
	"SELF":          `(?:landscape|NONAME)`,
}

// Expand replaces every {NAME} reference to BasePatterns in pattern.
// Unknown names are left untouched.
func Expand(pattern string) string {
	if !strings.Contains(pattern, "{") {
		return pattern
	}
	var b strings.Builder
	for {
		open := strings.IndexByte(pattern, '{')
		if open < 0 {
			b.WriteString(pattern)
			return b.String()
		}
		end := strings.IndexByte(pattern[open:], '}')
		if end < 0 {
			b.WriteString(pattern)
			return b.String()
		}
		name := pattern[open+1 : open+end]
		if expr, ok := BasePatterns[name]; ok {
			b.WriteString(pattern[:open])
			b.WriteString(expr)
		} else {
			b.WriteString(pattern[:open+end+1])
		}
		pattern = pattern[open+end+1:]
	}
}
