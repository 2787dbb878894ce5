package il2log

import (
	"sort"

	"github.com/il2log/il2log-go/pkg/il2log/event"
	"github.com/il2log/il2log-go/pkg/il2log/grammar"
)

// Score bits. A higher score means a less specific rule that is tried later.
const (
	scoreActorHuman = 1 << iota
	scoreActorAI
	scoreAttackerHuman
	scoreAttackerAI
	scoreAssistantHuman
	scoreAssistantAI
)

func roleScore(k event.ActorKind, human, ai int) int {
	switch {
	case k.IsHuman():
		return human
	case k.IsAI():
		return ai
	}
	return 0
}

// Score ranks an event kind for rule ordering.
//
// A human actor, attacker or assistant sets a lower bit than an AI one in
// the same role, so rules naming human aircraft are tried before the AI
// rules whose looser token shape would also match them. Units and world
// objects set no bit and are tried first. Kinds outside the catalog score 0.
func Score(kind event.Kind) int {
	roles, ok := event.RolesOf(kind)
	if !ok {
		return 0
	}
	return roleScore(roles.Actor, scoreActorHuman, scoreActorAI) |
		roleScore(roles.Attacker, scoreAttackerHuman, scoreAttackerAI) |
		roleScore(roles.Assistant, scoreAssistantHuman, scoreAssistantAI)
}

// SortRules orders rules by ascending Score. Rules with equal scores keep
// their relative order.
func SortRules(rules []*grammar.Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return Score(rules[i].Kind()) < Score(rules[j].Kind())
	})
}
