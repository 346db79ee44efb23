// Package engine is the scene/battle controller. It exposes one method per
// player action; each runs to completion and returns the outbound events
// the presentation layer should render.
package engine

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nathoo/dragonroad/engine/effects"
	"github.com/nathoo/dragonroad/engine/events"
	"github.com/nathoo/dragonroad/engine/parser"
	"github.com/nathoo/dragonroad/engine/rules"
	"github.com/nathoo/dragonroad/engine/save"
	"github.com/nathoo/dragonroad/engine/state"
	"github.com/nathoo/dragonroad/types"
)

// Engine holds the game definitions and mutable state.
type Engine struct {
	Defs   *state.Defs
	State  *types.State
	Roller Roller
	Log    *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed uses a seeded RNG. Seed 0 seeds from the clock.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		e.setRNG(NewRNG(seed))
	}
}

// WithRoller injects a custom roll source.
func WithRoller(r Roller) Option {
	return func(e *Engine) {
		e.Roller = r
	}
}

// WithLogger sets the logger used for transition diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.Log = l
	}
}

// New creates a new engine from definitions.
func New(defs *state.Defs, opts ...Option) *Engine {
	e := &Engine{
		Defs:  defs,
		State: state.NewState(defs),
		Log:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.Roller == nil {
		WithSeed(0)(e)
	}
	return e
}

func (e *Engine) setRNG(rng *RNG) {
	e.Roller = rng
	e.State.RNGSeed = rng.Seed()
	e.State.RNGPos = rng.Position()
}

// RestoreRNG re-creates the RNG from seed and advances to the saved position.
func (e *Engine) RestoreRNG(seed int64, position int64) {
	e.setRNG(RestoreRNG(seed, position))
}

// Restore replaces the session with saved data, including the RNG stream.
func (e *Engine) Restore(sd *save.SaveData) {
	save.ApplySave(e.State, sd)
	e.RestoreRNG(sd.RNGSeed, sd.RNGPos)
	e.Log.Debug("session restored", "cursor", e.State.Cursor, "mode", e.State.Mode, "turn", e.State.Turn)
}

// Start renders the current location without changing state.
func (e *Engine) Start() types.Result {
	var result types.Result
	e.describe(&result)
	e.finish(&result)
	return result
}

// Advance walks on to the next location.
func (e *Engine) Advance() types.Result { return e.Do(types.ActionAdvance) }

// Fight engages the enemy waiting at the current location.
func (e *Engine) Fight() types.Result { return e.Do(types.ActionFight) }

// Attack strikes the engaged enemy.
func (e *Engine) Attack() types.Result { return e.Do(types.ActionAttack) }

// Heal restores some of the player's HP.
func (e *Engine) Heal() types.Result { return e.Do(types.ActionHeal) }

// OpenItemMenu shows the item sub-menu.
func (e *Engine) OpenItemMenu() types.Result { return e.Do(types.ActionItemMenu) }

// UseItem drinks a potion.
func (e *Engine) UseItem() types.Result { return e.Do(types.ActionUsePotion) }

// CloseItemMenu returns from the item sub-menu.
func (e *Engine) CloseItemMenu() types.Result { return e.Do(types.ActionBack) }

// Restart resets the session after it has ended.
func (e *Engine) Restart() types.Result { return e.Do(types.ActionRestart) }

// Look re-renders the current location.
func (e *Engine) Look() types.Result { return e.Do(types.ActionLook) }

// Step parses a text command and runs it.
func (e *Engine) Step(input string) types.Result {
	id, ok := parser.Parse(input, e.Available())
	if !ok {
		return types.Result{Events: []types.Event{events.Log("I don't understand that.")}}
	}
	return e.Do(id)
}

// Do runs one action. Actions that are not legal in the current state are
// ignored: the result is empty and nothing changes.
func (e *Engine) Do(id types.ActionID) types.Result {
	var result types.Result

	if !rules.Legal(e.State, e.Defs, id) {
		e.Log.Debug("ignored action", "action", id, "mode", e.State.Mode)
		return result
	}

	before := e.State.Mode

	switch id {
	case types.ActionAdvance:
		e.apply(&result, types.Effect{Type: effects.Advance})
	case types.ActionFight:
		e.apply(&result, types.Effect{Type: effects.SpawnEnemy})
	case types.ActionAttack:
		e.attack(&result)
	case types.ActionHeal:
		e.heal(&result)
	case types.ActionItemMenu:
		if state.PotionCount(e.State) == 0 {
			e.say(&result, "You have no usable items!")
			break
		}
		e.apply(&result, types.Effect{Type: effects.OpenItemMenu})
	case types.ActionUsePotion:
		e.usePotion(&result)
	case types.ActionBack:
		e.apply(&result, types.Effect{Type: effects.CloseItemMenu})
	case types.ActionRestart:
		e.apply(&result, types.Effect{Type: effects.Reset})
		e.say(&result, "A new journey begins.")
		e.describe(&result)
	case types.ActionLook:
		e.describe(&result)
	}

	if len(result.Effects) > 0 && countsAsTurn(id) {
		e.State.Turn++
	}
	if after := e.State.Mode; after != before {
		e.Log.Debug("mode changed", "from", before, "to", after, "cursor", e.State.Cursor, "turn", e.State.Turn)
	}

	e.finish(&result)
	return result
}

// countsAsTurn reports whether a resolved action moves the story on.
// Menu navigation and restart do not.
func countsAsTurn(id types.ActionID) bool {
	switch id {
	case types.ActionItemMenu, types.ActionBack, types.ActionRestart:
		return false
	}
	return true
}

// Available returns the actions currently offered to the player.
func (e *Engine) Available() []types.ActionDesc {
	return rules.Available(e.State, e.Defs)
}

// Status summarizes both combatants' health.
func (e *Engine) Status() types.Status {
	s := e.State
	st := types.Status{
		PlayerName:  s.Player.Name,
		PlayerHP:    s.Player.HP,
		PlayerMaxHP: s.Player.MaxHP,
		Potions:     state.PotionCount(s),
	}
	if s.Enemy != nil {
		st.Enemy = &types.EnemyStatus{Name: s.Enemy.Name, HP: s.Enemy.HP, MaxHP: s.Enemy.MaxHP}
	}
	return st
}

// apply runs effects against the state and logs their narration.
func (e *Engine) apply(result *types.Result, effs ...types.Effect) {
	output := effects.Apply(e.State, e.Defs, effs)
	result.Effects = append(result.Effects, effs...)
	for _, line := range output {
		e.say(result, line)
	}
}

func (e *Engine) say(result *types.Result, text string) {
	result.Events = append(result.Events, events.Log(text))
}

// describe logs the current location's description.
func (e *Engine) describe(result *types.Result) {
	if loc, ok := state.CurrentLocation(e.State, e.Defs); ok {
		e.say(result, loc.Description)
	}
}

// finish appends the status, action list and terminal signal, and records
// the RNG position for save/load.
func (e *Engine) finish(result *types.Result) {
	if rng, ok := e.Roller.(*RNG); ok {
		e.State.RNGPos = rng.Position()
	}

	result.Events = append(result.Events,
		events.Status(e.Status()),
		events.Actions(e.Available()),
	)

	switch e.State.Mode {
	case types.ModeGameOver:
		result.Events = append(result.Events, events.Ended(types.OutcomeGameOver))
	case types.ModeVictory:
		result.Events = append(result.Events, events.Ended(types.OutcomeVictory))
	}
}
