// Package types defines the shared data structures for the Dragon Road engine.
// This package contains only type definitions: no logic, no methods.
package types

// Mode is the coarse game state gating which actions are legal.
type Mode string

const (
	ModeMap      Mode = "map"
	ModeBattle   Mode = "battle"
	ModeGameOver Mode = "game-over"
	ModeVictory  Mode = "victory"
)

// Outcome is the terminal result reported with a game_ended event.
type Outcome string

const (
	OutcomeGameOver Outcome = "game-over"
	OutcomeVictory  Outcome = "victory"
)

// ActionID identifies an inbound action from the presentation layer.
type ActionID string

const (
	ActionAdvance   ActionID = "advance"
	ActionFight     ActionID = "fight"
	ActionAttack    ActionID = "attack"
	ActionHeal      ActionID = "heal"
	ActionItemMenu  ActionID = "item"
	ActionUsePotion ActionID = "use_potion"
	ActionBack      ActionID = "back"
	ActionRestart   ActionID = "restart"
	ActionLook      ActionID = "look"
)

// ActionDesc describes one action currently offered to the player.
type ActionDesc struct {
	ID    ActionID `json:"id"`
	Label string   `json:"label"`
}

// Character is a combatant: the player or the active enemy.
type Character struct {
	Name        string `json:"name"`
	HP          int    `json:"hp"`
	MaxHP       int    `json:"max_hp"`
	AttackPower int    `json:"attack_power"`
	HealPower   int    `json:"heal_power"`
}

// EnemyDef is the template an enemy is instantiated from.
type EnemyDef struct {
	Name   string
	HP     int
	MaxHP  int
	Attack int
}

// LocationDef is one entry in the fixed, ordered encounter list.
type LocationDef struct {
	ID           string
	Description  string
	AdvanceLabel string    // choice label for locations without an enemy
	Enemy        *EnemyDef // nil when the location carries no encounter
}

// PlayerDef holds the starting player stats.
type PlayerDef struct {
	Name    string
	HP      int
	Attack  int
	Heal    int
	Potions int
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
}

// State is the complete mutable session state.
type State struct {
	Player    Character      `json:"player"`
	Inventory map[string]int `json:"inventory"`
	Enemy     *Character     `json:"enemy,omitempty"`
	Cursor    int            `json:"cursor"`
	Mode      Mode           `json:"mode"`
	ItemMenu  bool           `json:"item_menu"`
	Turn      int            `json:"turn"`
	RNGSeed   int64          `json:"rng_seed"`
	RNGPos    int64          `json:"rng_position"`
}

// Effect is a single atomic state mutation instruction.
type Effect struct {
	Type   string `json:"type"`
	Amount int    `json:"amount,omitempty"`
}

// EventKind classifies an outbound event.
type EventKind string

const (
	EventLog       EventKind = "log"
	EventStatus    EventKind = "status"
	EventActions   EventKind = "actions"
	EventGameEnded EventKind = "game_ended"
)

// EnemyStatus is the enemy half of a status update.
type EnemyStatus struct {
	Name  string `json:"name"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"max_hp"`
}

// Status is a combatant health summary.
type Status struct {
	PlayerName  string       `json:"player_name"`
	PlayerHP    int          `json:"player_hp"`
	PlayerMaxHP int          `json:"player_max_hp"`
	Potions     int          `json:"potions"`
	Enemy       *EnemyStatus `json:"enemy,omitempty"`
}

// Event is one message toward the presentation layer.
type Event struct {
	Kind    EventKind    `json:"kind"`
	Text    string       `json:"text,omitempty"`
	Status  *Status      `json:"status,omitempty"`
	Actions []ActionDesc `json:"actions,omitempty"`
	Outcome Outcome      `json:"outcome,omitempty"`
}

// Result is the output of a single controller action.
type Result struct {
	Effects []Effect `json:"effects,omitempty"`
	Events  []Event  `json:"events"`
}
