// Package rules decides which actions are legal in the current session and
// which of them are offered to the player.
package rules

import (
	"fmt"

	"github.com/nathoo/dragonroad/engine/state"
	"github.com/nathoo/dragonroad/types"
)

// ActionRule pairs an action with its guards. Legal gates execution;
// Offered gates whether the presentation layer shows it.
type ActionRule struct {
	ID      types.ActionID
	Label   string
	Legal   Condition
	Offered Condition
}

// Table lists every action in display order.
var Table = []ActionRule{
	{
		ID:      types.ActionAdvance,
		Label:   "Continue",
		Legal:   All(InMode(types.ModeMap), RoadAhead),
		Offered: Always,
	},
	{
		ID:      types.ActionFight,
		Label:   "Fight",
		Legal:   All(InMode(types.ModeMap), EnemyAhead),
		Offered: Always,
	},
	{
		ID:      types.ActionAttack,
		Label:   "Attack",
		Legal:   Fighting,
		Offered: Not(ItemMenuOpen),
	},
	{
		ID:      types.ActionHeal,
		Label:   "Heal",
		Legal:   Fighting,
		Offered: Not(ItemMenuOpen),
	},
	{
		ID:      types.ActionItemMenu,
		Label:   "Item",
		Legal:   All(Fighting, Not(ItemMenuOpen)),
		Offered: HasPotion,
	},
	{
		ID:      types.ActionUsePotion,
		Label:   "Use potion",
		Legal:   Fighting,
		Offered: All(ItemMenuOpen, HasPotion),
	},
	{
		ID:      types.ActionBack,
		Label:   "Back",
		Legal:   All(Fighting, ItemMenuOpen),
		Offered: Always,
	},
	{
		ID:      types.ActionRestart,
		Label:   "Play again",
		Legal:   Ended,
		Offered: Always,
	},
	{
		ID:      types.ActionLook,
		Label:   "Look",
		Legal:   Always,
		Offered: func(*types.State, *state.Defs) bool { return false },
	},
}

// Lookup returns the rule for an action.
func Lookup(id types.ActionID) (ActionRule, bool) {
	for _, r := range Table {
		if r.ID == id {
			return r, true
		}
	}
	return ActionRule{}, false
}

// Legal reports whether id may run against the current state.
// Unknown actions are never legal.
func Legal(s *types.State, defs *state.Defs, id types.ActionID) bool {
	r, ok := Lookup(id)
	if !ok {
		return false
	}
	return r.Legal(s, defs)
}

// Available returns the descriptors of every action that is both legal
// and offered, in table order.
func Available(s *types.State, defs *state.Defs) []types.ActionDesc {
	var out []types.ActionDesc
	for _, r := range Table {
		if !r.Legal(s, defs) || !r.Offered(s, defs) {
			continue
		}
		out = append(out, types.ActionDesc{ID: r.ID, Label: label(r, s, defs)})
	}
	return out
}

// label adapts static labels to the current scene.
func label(r ActionRule, s *types.State, defs *state.Defs) string {
	switch r.ID {
	case types.ActionAdvance:
		if loc, ok := state.CurrentLocation(s, defs); ok && loc.AdvanceLabel != "" {
			return loc.AdvanceLabel
		}
	case types.ActionFight:
		if loc, ok := state.CurrentLocation(s, defs); ok && loc.Enemy != nil {
			return fmt.Sprintf("Fight the %s", loc.Enemy.Name)
		}
	case types.ActionUsePotion:
		return fmt.Sprintf("%s (%d left)", r.Label, state.PotionCount(s))
	}
	return r.Label
}
