// Package effects implements centralized state mutation via the Apply function.
// Every effect type is one atomic operation. No decisions are made here:
// rolls and legality are settled before an effect is built.
package effects

import (
	"fmt"

	"github.com/nathoo/dragonroad/engine/state"
	"github.com/nathoo/dragonroad/types"
)

// Effect types.
const (
	SpawnEnemy    = "spawn_enemy"
	DamageEnemy   = "damage_enemy"
	DefeatEnemy   = "defeat_enemy"
	HealPlayer    = "heal_player"
	UsePotion     = "use_potion"
	DamagePlayer  = "damage_player"
	Advance       = "advance"
	OpenItemMenu  = "open_item_menu"
	CloseItemMenu = "close_item_menu"
	Reset         = "reset"
)

// Apply applies a list of effects to the game state, mutating it.
// Returns the narration lines produced, in order.
func Apply(s *types.State, defs *state.Defs, effs []types.Effect) []string {
	var output []string

	for _, eff := range effs {
		switch eff.Type {
		case SpawnEnemy:
			loc, ok := state.CurrentLocation(s, defs)
			if !ok || loc.Enemy == nil {
				continue
			}
			state.SpawnEnemy(s, *loc.Enemy)
			s.Mode = types.ModeBattle
			s.ItemMenu = false
			output = append(output, fmt.Sprintf("You face the %s!", s.Enemy.Name))

		case DamageEnemy:
			if s.Enemy == nil {
				continue
			}
			state.DamageEnemy(s, eff.Amount)
			output = append(output, fmt.Sprintf("You attack! The %s takes %d damage!", s.Enemy.Name, eff.Amount))

		case DefeatEnemy:
			if s.Enemy == nil {
				continue
			}
			name := s.Enemy.Name // capture before clearing
			state.ClearEnemy(s)
			s.Mode = types.ModeMap
			s.ItemMenu = false
			output = append(output, fmt.Sprintf("You defeated the %s!", name))

		case HealPlayer:
			state.HealPlayer(s, eff.Amount)
			output = append(output, fmt.Sprintf("You catch your breath and recover %d HP!", eff.Amount))

		case UsePotion:
			if !state.ConsumePotion(s) {
				output = append(output, "You have no usable items!")
				continue
			}
			s.ItemMenu = false
			output = append(output, fmt.Sprintf("You drink a potion and recover %d HP!", state.PotionHeal))

		case DamagePlayer:
			name := "enemy"
			if s.Enemy != nil {
				name = s.Enemy.Name
			}
			state.DamagePlayer(s, eff.Amount)
			output = append(output, fmt.Sprintf("The %s attacks! You take %d damage!", name, eff.Amount))
			if !state.PlayerAlive(s) {
				s.ItemMenu = false
				output = append(output, "You collapse... Game over.")
			}

		case Advance:
			state.AdvanceCursor(s, defs)
			if loc, ok := state.CurrentLocation(s, defs); ok {
				output = append(output, loc.Description)
			}

		case OpenItemMenu:
			s.ItemMenu = true

		case CloseItemMenu:
			s.ItemMenu = false

		case Reset:
			state.Reset(s, defs)

		default:
			// Unknown effect types are ignored.
		}
	}

	return output
}
