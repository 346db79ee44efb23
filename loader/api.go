package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// enemyMarker tags tables produced by Enemy{} so a location can tell an
// enemy definition from an arbitrary nested table.
const enemyMarker = "__enemy"

// registerAPI registers all Lua constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Player { name = "...", hp = 40, attack = 6, heal = 4, potions = 1 }
	L.SetGlobal("Player", L.NewFunction(func(L *lua.LState) int {
		coll.player = L.CheckTable(1)
		return 0
	}))

	// Location "id" { ... } is curried: Location("id") returns a function that
	// takes a table. Locations keep their source order.
	L.SetGlobal("Location", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.locations = append(coll.locations, rawLocation{
				id:    id,
				table: tbl,
				order: coll.nextSourceOrder(),
			})
			return 0
		}))
		return 1
	}))

	// Enemy { name = "...", hp = 15, attack = 3 } returns the table, tagged,
	// for use as a location's enemy field.
	L.SetGlobal("Enemy", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		tbl.RawSetString(enemyMarker, lua.LTrue)
		L.Push(tbl)
		return 1
	}))
}
