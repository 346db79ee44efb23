package rules

import (
	"github.com/nathoo/dragonroad/engine/state"
	"github.com/nathoo/dragonroad/types"
)

// Condition is a predicate over the current session.
type Condition func(s *types.State, defs *state.Defs) bool

// All is true when every condition holds.
func All(conds ...Condition) Condition {
	return func(s *types.State, defs *state.Defs) bool {
		for _, c := range conds {
			if !c(s, defs) {
				return false
			}
		}
		return true
	}
}

// Not negates a condition.
func Not(c Condition) Condition {
	return func(s *types.State, defs *state.Defs) bool {
		return !c(s, defs)
	}
}

// InMode matches the coarse mode.
func InMode(m types.Mode) Condition {
	return func(s *types.State, _ *state.Defs) bool {
		return s.Mode == m
	}
}

// Always holds unconditionally.
func Always(*types.State, *state.Defs) bool { return true }

// Ended holds in game-over and victory.
func Ended(s *types.State, _ *state.Defs) bool { return state.Ended(s) }

// EnemyAhead holds when the current location bears an enemy not yet engaged.
func EnemyAhead(s *types.State, defs *state.Defs) bool {
	loc, ok := state.CurrentLocation(s, defs)
	return ok && loc.Enemy != nil && s.Enemy == nil
}

// RoadAhead holds when the current location has no enemy and is not the last.
func RoadAhead(s *types.State, defs *state.Defs) bool {
	loc, ok := state.CurrentLocation(s, defs)
	return ok && loc.Enemy == nil && !state.IsLastLocation(s, defs)
}

// Fighting holds while an engaged enemy and the player are both standing.
func Fighting(s *types.State, _ *state.Defs) bool {
	return s.Mode == types.ModeBattle && state.EnemyAlive(s) && state.PlayerAlive(s)
}

// HasPotion holds while at least one potion is carried.
func HasPotion(s *types.State, _ *state.Defs) bool {
	return state.PotionCount(s) > 0
}

// ItemMenuOpen holds while the item sub-menu is shown.
func ItemMenuOpen(s *types.State, _ *state.Defs) bool {
	return s.ItemMenu
}
