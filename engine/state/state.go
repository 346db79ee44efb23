// Package state manages the mutable session state. All mutations go through
// the guarded operations here; callers never write fields directly.
package state

import "github.com/nathoo/dragonroad/types"

// PotionHeal is the fixed amount a potion restores.
const PotionHeal = 10

// ItemPotion is the only inventory item.
const ItemPotion = "potion"

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game      types.GameDef
	Player    types.PlayerDef
	Locations []types.LocationDef
}

// NewState creates a fresh session state from definitions.
func NewState(defs *Defs) *types.State {
	s := &types.State{}
	Reset(s, defs)
	return s
}

// Reset restores s in place to the start-of-session values.
// RNG bookkeeping is left to the caller.
func Reset(s *types.State, defs *Defs) {
	p := defs.Player
	s.Player = types.Character{
		Name:        p.Name,
		HP:          p.HP,
		MaxHP:       p.HP,
		AttackPower: p.Attack,
		HealPower:   p.Heal,
	}
	s.Inventory = map[string]int{ItemPotion: p.Potions}
	s.Enemy = nil
	s.Cursor = 0
	s.Mode = types.ModeMap
	s.ItemMenu = false
	s.Turn = 0
}

// CurrentLocation returns the location under the progress cursor.
func CurrentLocation(s *types.State, defs *Defs) (types.LocationDef, bool) {
	if s.Cursor < 0 || s.Cursor >= len(defs.Locations) {
		return types.LocationDef{}, false
	}
	return defs.Locations[s.Cursor], true
}

// IsLastLocation reports whether the cursor sits on the final location.
func IsLastLocation(s *types.State, defs *Defs) bool {
	return s.Cursor >= len(defs.Locations)-1
}

// PotionCount returns the number of potions carried.
func PotionCount(s *types.State) int {
	return s.Inventory[ItemPotion]
}

// PlayerAlive reports whether the player has HP left.
func PlayerAlive(s *types.State) bool {
	return s.Player.HP > 0
}

// EnemyAlive reports whether an enemy is engaged and still standing.
func EnemyAlive(s *types.State) bool {
	return s.Enemy != nil && s.Enemy.HP > 0
}

// Ended reports whether the session reached a terminal mode.
func Ended(s *types.State) bool {
	return s.Mode == types.ModeGameOver || s.Mode == types.ModeVictory
}

// SpawnEnemy instantiates a fresh enemy from a template.
func SpawnEnemy(s *types.State, def types.EnemyDef) {
	maxHP := def.MaxHP
	if maxHP < def.HP {
		maxHP = def.HP
	}
	s.Enemy = &types.Character{
		Name:        def.Name,
		HP:          def.HP,
		MaxHP:       maxHP,
		AttackPower: def.Attack,
	}
}

// ClearEnemy drops the enemy reference.
func ClearEnemy(s *types.State) {
	s.Enemy = nil
}

// DamageEnemy subtracts amount from the enemy's HP, floored at 0.
// Returns false without touching anything when no enemy is present.
func DamageEnemy(s *types.State, amount int) bool {
	if s.Enemy == nil {
		return false
	}
	s.Enemy.HP = clamp(s.Enemy.HP-amount, 0, s.Enemy.MaxHP)
	return true
}

// DamagePlayer subtracts amount from the player's HP, floored at 0.
// Reaching 0 switches the mode to game-over.
func DamagePlayer(s *types.State, amount int) {
	s.Player.HP = clamp(s.Player.HP-amount, 0, s.Player.MaxHP)
	if s.Player.HP == 0 {
		s.Mode = types.ModeGameOver
	}
}

// HealPlayer adds amount to the player's HP, capped at MaxHP.
// Returns the HP actually restored.
func HealPlayer(s *types.State, amount int) int {
	before := s.Player.HP
	s.Player.HP = clamp(s.Player.HP+amount, 0, s.Player.MaxHP)
	return s.Player.HP - before
}

// ConsumePotion drinks one potion, healing PotionHeal.
// Returns false ("no item available") when none are left.
func ConsumePotion(s *types.State) bool {
	if s.Inventory[ItemPotion] <= 0 {
		return false
	}
	s.Inventory[ItemPotion]--
	HealPlayer(s, PotionHeal)
	return true
}

// AdvanceCursor moves to the next location. Landing on the last one
// marks the story complete.
func AdvanceCursor(s *types.State, defs *Defs) {
	if s.Cursor < len(defs.Locations)-1 {
		s.Cursor++
	}
	if IsLastLocation(s, defs) {
		s.Mode = types.ModeVictory
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
