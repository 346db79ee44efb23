package engine

import (
	"github.com/nathoo/dragonroad/engine/effects"
	"github.com/nathoo/dragonroad/engine/state"
	"github.com/nathoo/dragonroad/types"
)

// EnemyDamageSides is the enemy counter-attack die. Enemies always roll
// 1d4; their own Attack stat is never consulted for offense.
const EnemyDamageSides = 4

// AttackRoll rolls the player's attack damage in [1, AttackPower].
func AttackRoll(c types.Character, r Roller) int {
	return r.Roll(c.AttackPower)
}

// HealRoll rolls a heal amount in [1, HealPower].
func HealRoll(c types.Character, r Roller) int {
	return r.Roll(c.HealPower)
}

// CounterRoll rolls the enemy's counter-attack damage in [1, 4].
func CounterRoll(r Roller) int {
	return r.Roll(EnemyDamageSides)
}

// attack resolves the player's Attack action.
func (e *Engine) attack(result *types.Result) {
	dmg := AttackRoll(e.State.Player, e.Roller)
	e.apply(result,
		types.Effect{Type: effects.CloseItemMenu},
		types.Effect{Type: effects.DamageEnemy, Amount: dmg},
	)
	e.resolveRound(result)
}

// heal resolves the player's Heal action.
func (e *Engine) heal(result *types.Result) {
	amount := HealRoll(e.State.Player, e.Roller)
	e.apply(result,
		types.Effect{Type: effects.CloseItemMenu},
		types.Effect{Type: effects.HealPlayer, Amount: amount},
	)
	e.resolveRound(result)
}

// usePotion drinks a potion. With none left the turn is not consumed:
// no state change and no counter-attack.
func (e *Engine) usePotion(result *types.Result) {
	if state.PotionCount(e.State) == 0 {
		e.say(result, "You have no usable items!")
		return
	}
	e.apply(result, types.Effect{Type: effects.UsePotion})
	e.resolveRound(result)
}

// resolveRound finishes a consumed player turn: either the enemy falls
// and the road advances, or the enemy strikes back.
func (e *Engine) resolveRound(result *types.Result) {
	if !state.EnemyAlive(e.State) {
		e.apply(result,
			types.Effect{Type: effects.DefeatEnemy},
			types.Effect{Type: effects.Advance},
		)
		return
	}
	e.enemyTurn(result)
}

// enemyTurn runs the enemy's counter-attack.
func (e *Engine) enemyTurn(result *types.Result) {
	if !state.EnemyAlive(e.State) || !state.PlayerAlive(e.State) {
		return
	}
	dmg := CounterRoll(e.Roller)
	e.apply(result, types.Effect{Type: effects.DamagePlayer, Amount: dmg})
}
