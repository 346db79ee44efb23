// Package parser converts command strings into actions.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strconv"
	"strings"

	"github.com/nathoo/dragonroad/types"
)

var verbAliases = map[string]types.ActionID{
	// Movement
	"go":       types.ActionAdvance,
	"walk":     types.ActionAdvance,
	"continue": types.ActionAdvance,
	"proceed":  types.ActionAdvance,
	"advance":  types.ActionAdvance,
	"enter":    types.ActionAdvance,
	"next":     types.ActionAdvance,
	"n":        types.ActionAdvance,

	// Engage
	"fight":  types.ActionFight,
	"engage": types.ActionFight,
	"f":      types.ActionFight,

	// Combat
	"attack": types.ActionAttack,
	"hit":    types.ActionAttack,
	"strike": types.ActionAttack,
	"a":      types.ActionAttack,

	"heal":    types.ActionHeal,
	"recover": types.ActionHeal,
	"rest":    types.ActionHeal,
	"h":       types.ActionHeal,

	// Items
	"item":  types.ActionItemMenu,
	"items": types.ActionItemMenu,
	"i":     types.ActionItemMenu,
	"use":   types.ActionUsePotion,
	"drink": types.ActionUsePotion,
	"quaff": types.ActionUsePotion,
	"p":     types.ActionUsePotion,
	"back":  types.ActionBack,
	"b":     types.ActionBack,

	// Session
	"restart": types.ActionRestart,
	"again":   types.ActionRestart,
	"replay":  types.ActionRestart,
	"r":       types.ActionRestart,
	"look":    types.ActionLook,
	"l":       types.ActionLook,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into an action. A bare number picks
// from offered (1-based). Returns false when nothing matches.
func Parse(input string, offered []types.ActionDesc) (types.ActionID, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	words := strings.Fields(strings.ToLower(input))

	// Numbered choice.
	if len(words) == 1 {
		if n, err := strconv.Atoi(words[0]); err == nil {
			if n < 1 || n > len(offered) {
				return "", false
			}
			return offered[n-1].ID, true
		}
	}

	words = expandMultiWordVerbs(words)

	if id, ok := verbAliases[words[0]]; ok {
		return id, true
	}

	// Fall back to the exact label of an offered action ("step outside").
	phrase := strings.Join(stripArticles(words), " ")
	for _, a := range offered {
		label := strings.Join(stripArticles(strings.Fields(strings.ToLower(a.Label))), " ")
		if label == phrase || string(a.ID) == phrase {
			return a.ID, true
		}
	}
	return "", false
}

// expandMultiWordVerbs handles "use potion", "go back", "play again" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "use", "drink":
		if words[1] == "potion" || words[1] == "item" {
			return append([]string{"drink"}, words[2:]...)
		}
	case "go":
		if words[1] == "back" {
			return append([]string{"back"}, words[2:]...)
		}
	case "play":
		if words[1] == "again" {
			return append([]string{"restart"}, words[2:]...)
		}
	case "look":
		if words[1] == "around" {
			return append([]string{"look"}, words[2:]...)
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}
