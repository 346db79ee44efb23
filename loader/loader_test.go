package loader

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"

	"github.com/nathoo/dragonroad/games"
)

const minimalGame = `
Game { title = "Minimal", version = "0.1" }
Player { name = "Tester", hp = 10, attack = 3, heal = 2, potions = 0 }
`

const minimalRoad = `
Location "gate" { description = "A gate.", advance = "Open it" }
Location "yard" {
    description = "A rat!",
    enemy = Enemy { name = "Rat", hp = 4, attack = 1 },
}
Location "home" { description = "Home again." }
`

func mapFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys["game/"+name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

func TestLoadFS_Minimal(t *testing.T) {
	defs, err := LoadFS(mapFS(map[string]string{
		"game.lua": minimalGame,
		"road.lua": minimalRoad,
	}), "game")
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}

	if defs.Game.Title != "Minimal" {
		t.Errorf("Title = %q, want Minimal", defs.Game.Title)
	}
	if defs.Player.Name != "Tester" || defs.Player.HP != 10 {
		t.Errorf("unexpected player %+v", defs.Player)
	}
	if len(defs.Locations) != 3 {
		t.Fatalf("expected 3 locations, got %d", len(defs.Locations))
	}
	ids := []string{defs.Locations[0].ID, defs.Locations[1].ID, defs.Locations[2].ID}
	if strings.Join(ids, ",") != "gate,yard,home" {
		t.Errorf("locations out of source order: %v", ids)
	}
	if defs.Locations[0].AdvanceLabel != "Open it" {
		t.Errorf("advance label = %q", defs.Locations[0].AdvanceLabel)
	}
	if defs.Locations[1].Enemy == nil || defs.Locations[1].Enemy.Name != "Rat" {
		t.Errorf("expected rat at yard, got %+v", defs.Locations[1].Enemy)
	}
}

func TestLoadFS_WarningsGoToLogger(t *testing.T) {
	var buf bytes.Buffer
	_, err := LoadFS(mapFS(map[string]string{
		"game.lua": minimalGame,
		"road.lua": `
Location "gate" { description = "A gate." }
Location "home" { description = "Home again." }
`,
	}), "game", WithLogger(log.New(&buf)))
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}
	if !strings.Contains(buf.String(), "no advance label") {
		t.Errorf("expected advance label warning in logger output, got %q", buf.String())
	}
}

func TestLoadFS_FileOrdering(t *testing.T) {
	// a.lua sorts before road.lua, so its location comes first.
	defs, err := LoadFS(mapFS(map[string]string{
		"game.lua": minimalGame,
		"road.lua": minimalRoad,
		"a.lua":    `Location "prologue" { description = "Before it all." }`,
	}), "game")
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}
	if defs.Locations[0].ID != "prologue" {
		t.Errorf("first location = %q, want prologue", defs.Locations[0].ID)
	}
}

func TestLoadFS_Failures(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"no lua files", map[string]string{"readme.txt": "hi"}, "no .lua files"},
		{"bad syntax", map[string]string{"game.lua": `Game {`}, "parsing game.lua"},
		{"runtime error", map[string]string{"game.lua": `error("boom")`}, "executing game.lua"},
		{"no game", map[string]string{"road.lua": minimalRoad}, "no Game{} definition"},
		{"no player", map[string]string{"game.lua": `Game { title = "X" }`, "road.lua": minimalRoad}, "no Player{} definition"},
		{"validation", map[string]string{"game.lua": minimalGame, "road.lua": `Location "only" { description = "Alone." }`}, "at least 2 locations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFS(mapFS(tt.files), "game")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want containing %q", err.Error(), tt.want)
			}
		})
	}
}

func TestLoad_MissingDir(t *testing.T) {
	if _, err := Load(t.TempDir() + "/nope"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestLoad_SandboxEnforced(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	for _, code := range []string{
		`os.execute("echo pwned")`,
		`io.open("/etc/passwd")`,
		`dofile("x.lua")`,
		`math.random(6)`,
	} {
		if err := L.DoString(code); err == nil {
			t.Errorf("expected sandbox to block %s", code)
		}
	}
}

func TestLoadFS_ClassicGame(t *testing.T) {
	defs, err := LoadFS(games.FS, games.Classic)
	if err != nil {
		t.Fatalf("LoadFS classic failed: %v", err)
	}

	if defs.Game.Title != "Dragon Road" {
		t.Errorf("Title = %q", defs.Game.Title)
	}
	p := defs.Player
	if p.Name != "Hero" || p.HP != 40 || p.Attack != 6 || p.Heal != 4 || p.Potions != 1 {
		t.Errorf("unexpected player %+v", p)
	}

	want := []struct {
		id    string
		enemy string
		hp    int
		atk   int
	}{
		{"village", "", 0, 0},
		{"forest", "Slime", 15, 3},
		{"pass", "Goblin", 20, 4},
		{"lair", "Dragon", 40, 6},
		{"epilogue", "", 0, 0},
	}
	if len(defs.Locations) != len(want) {
		t.Fatalf("expected %d locations, got %d", len(want), len(defs.Locations))
	}
	for i, w := range want {
		loc := defs.Locations[i]
		if loc.ID != w.id {
			t.Errorf("location %d = %q, want %q", i, loc.ID, w.id)
		}
		if w.enemy == "" {
			if loc.Enemy != nil {
				t.Errorf("%s: unexpected enemy %+v", w.id, loc.Enemy)
			}
			continue
		}
		if loc.Enemy == nil || loc.Enemy.Name != w.enemy || loc.Enemy.HP != w.hp || loc.Enemy.MaxHP != w.hp || loc.Enemy.Attack != w.atk {
			t.Errorf("%s: enemy = %+v", w.id, loc.Enemy)
		}
	}
	if defs.Locations[0].AdvanceLabel != "Step outside" {
		t.Errorf("village advance label = %q", defs.Locations[0].AdvanceLabel)
	}
}
