// Package loader loads Lua game content into Go structs at compile time.
// The Lua VM is discarded after loading; no Lua runs during play.
package loader

import (
	"fmt"
	"sort"

	"github.com/nathoo/dragonroad/engine/state"
	"github.com/nathoo/dragonroad/types"
	lua "github.com/yuin/gopher-lua"
)

// rawLocation holds a location table before compilation.
type rawLocation struct {
	id    string
	table *lua.LTable
	order int
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	if coll.player == nil {
		return nil, fmt.Errorf("no Player{} definition found")
	}
	defs.Player = compilePlayer(coll.player)

	sort.SliceStable(coll.locations, func(i, j int) bool {
		return coll.locations[i].order < coll.locations[j].order
	})
	for _, raw := range coll.locations {
		loc, err := compileLocation(raw)
		if err != nil {
			return nil, err
		}
		defs.Locations = append(defs.Locations, loc)
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
	}
}

func compilePlayer(tbl *lua.LTable) types.PlayerDef {
	name := getString(tbl, "name")
	if name == "" {
		name = "Hero"
	}
	return types.PlayerDef{
		Name:    name,
		HP:      getInt(tbl, "hp"),
		Attack:  getInt(tbl, "attack"),
		Heal:    getInt(tbl, "heal"),
		Potions: getInt(tbl, "potions"),
	}
}

func compileLocation(raw rawLocation) (types.LocationDef, error) {
	loc := types.LocationDef{
		ID:           raw.id,
		Description:  getString(raw.table, "description"),
		AdvanceLabel: getString(raw.table, "advance"),
	}

	if v := raw.table.RawGetString("enemy"); v != lua.LNil {
		tbl, ok := v.(*lua.LTable)
		if !ok || tbl.RawGetString(enemyMarker) != lua.LTrue {
			return loc, fmt.Errorf("location %q: enemy must be built with Enemy{}", raw.id)
		}
		loc.Enemy = compileEnemy(tbl)
	}

	return loc, nil
}

// compileEnemy builds an enemy template. max_hp defaults to hp.
func compileEnemy(tbl *lua.LTable) *types.EnemyDef {
	hp := getInt(tbl, "hp")
	maxHP := getInt(tbl, "max_hp")
	if maxHP == 0 {
		maxHP = hp
	}
	return &types.EnemyDef{
		Name:   getString(tbl, "name"),
		HP:     hp,
		MaxHP:  maxHP,
		Attack: getInt(tbl, "attack"),
	}
}

// sortedLuaFiles returns .lua files with game.lua first and the rest sorted
// alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
