// Package save implements JSON serialization and deserialization of game state.
package save

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nathoo/dragonroad/engine/state"
	"github.com/nathoo/dragonroad/types"
)

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version   string           `json:"version"`
	Game      string           `json:"game"`
	Turn      int              `json:"turn"`
	Player    types.Character  `json:"player"`
	Inventory map[string]int   `json:"inventory"`
	Enemy     *types.Character `json:"enemy,omitempty"`
	Cursor    int              `json:"cursor"`
	Mode      types.Mode       `json:"mode"`
	ItemMenu  bool             `json:"item_menu"`
	RNGSeed   int64            `json:"rng_seed"`
	RNGPos    int64            `json:"rng_position"`
}

// Save serializes game state to JSON bytes.
func Save(s *types.State, defs *state.Defs) ([]byte, error) {
	data := SaveData{
		Version:   defs.Game.Version,
		Game:      defs.Game.Title,
		Turn:      s.Turn,
		Player:    s.Player,
		Inventory: s.Inventory,
		Enemy:     s.Enemy,
		Cursor:    s.Cursor,
		Mode:      s.Mode,
		ItemMenu:  s.ItemMenu,
		RNGSeed:   s.RNGSeed,
		RNGPos:    s.RNGPos,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if sd.Inventory == nil {
		sd.Inventory = map[string]int{}
	}
	if sd.Mode == "" {
		sd.Mode = types.ModeMap
	}
	return &sd, nil
}

// MaxRNGPosition bounds the draw count a save may ask to replay. A full
// run down the road uses a few hundred draws.
const MaxRNGPosition = 1 << 20

// Check reports whether sd belongs to the loaded game and describes a
// session the engine can continue from.
func Check(sd *SaveData, defs *state.Defs) error {
	if sd.Game != defs.Game.Title {
		return fmt.Errorf("save is for %q, not %q", sd.Game, defs.Game.Title)
	}
	if sd.Cursor < 0 || sd.Cursor >= len(defs.Locations) {
		return fmt.Errorf("save cursor %d out of range", sd.Cursor)
	}
	if sd.Turn < 0 {
		return fmt.Errorf("save turn %d is negative", sd.Turn)
	}
	if sd.RNGPos < 0 || sd.RNGPos > MaxRNGPosition {
		return fmt.Errorf("save rng position %d out of range", sd.RNGPos)
	}
	if err := checkCharacter("player", sd.Player); err != nil {
		return err
	}
	if sd.Enemy != nil {
		if err := checkCharacter("enemy", *sd.Enemy); err != nil {
			return err
		}
	}
	for item, n := range sd.Inventory {
		if n < 0 {
			return fmt.Errorf("save has %d of %q", n, item)
		}
	}

	last := sd.Cursor == len(defs.Locations)-1
	switch sd.Mode {
	case types.ModeMap:
		if last {
			return fmt.Errorf("save is on the road past its end")
		}
	case types.ModeBattle:
		if sd.Enemy == nil {
			return fmt.Errorf("save is in battle with no enemy")
		}
		if sd.Enemy.HP == 0 {
			return fmt.Errorf("save is in battle with a defeated enemy")
		}
	case types.ModeGameOver:
		if sd.Player.HP != 0 {
			return fmt.Errorf("save is game over with %d HP left", sd.Player.HP)
		}
	case types.ModeVictory:
		if !last {
			return fmt.Errorf("save is a victory before the last location")
		}
	default:
		return fmt.Errorf("save has unknown mode %q", sd.Mode)
	}
	if sd.Mode != types.ModeGameOver && sd.Player.HP == 0 {
		return fmt.Errorf("save player has no HP outside game over")
	}
	if sd.ItemMenu && sd.Mode != types.ModeBattle {
		return fmt.Errorf("save has the item menu open outside battle")
	}
	return nil
}

func checkCharacter(role string, c types.Character) error {
	if c.MaxHP <= 0 {
		return fmt.Errorf("save %s max_hp %d must be positive", role, c.MaxHP)
	}
	if c.HP < 0 || c.HP > c.MaxHP {
		return fmt.Errorf("save %s hp %d outside 0..%d", role, c.HP, c.MaxHP)
	}
	return nil
}

// ApplySave applies loaded save data onto a state. The caller restores the
// RNG stream from RNGSeed and RNGPos.
func ApplySave(s *types.State, sd *SaveData) {
	s.Player = sd.Player
	s.Inventory = sd.Inventory
	s.Enemy = sd.Enemy
	s.Cursor = sd.Cursor
	s.Mode = sd.Mode
	s.ItemMenu = sd.ItemMenu
	s.Turn = sd.Turn
	s.RNGSeed = sd.RNGSeed
	s.RNGPos = sd.RNGPos
}

// Path returns the file a named save lives in.
func Path(dir, name string) string {
	if name == "" {
		name = "quicksave"
	}
	return filepath.Join(dir, name+".json")
}

// WriteFile saves s under dir/name.json, creating dir as needed.
func WriteFile(dir, name string, s *types.State, defs *state.Defs) error {
	data, err := Save(s, defs)
	if err != nil {
		return fmt.Errorf("encoding save: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating save dir: %w", err)
	}
	if err := os.WriteFile(Path(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("writing save: %w", err)
	}
	return nil
}

// ReadFile loads and checks dir/name.json.
func ReadFile(dir, name string, defs *state.Defs) (*SaveData, error) {
	data, err := os.ReadFile(Path(dir, name))
	if err != nil {
		return nil, fmt.Errorf("reading save: %w", err)
	}
	sd, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("decoding save: %w", err)
	}
	if err := Check(sd, defs); err != nil {
		return nil, err
	}
	return sd, nil
}
