package loader

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/nathoo/dragonroad/engine/state"
	"github.com/nathoo/dragonroad/types"
)

// validDefs returns a minimal valid Defs for testing.
func validDefs() *state.Defs {
	return &state.Defs{
		Game:   types.GameDef{Title: "Test"},
		Player: types.PlayerDef{Name: "Hero", HP: 10, Attack: 2, Heal: 1, Potions: 1},
		Locations: []types.LocationDef{
			{ID: "start", Description: "Start.", AdvanceLabel: "Go"},
			{ID: "cave", Description: "A bat!", Enemy: &types.EnemyDef{Name: "Bat", HP: 3, MaxHP: 3, Attack: 1}},
			{ID: "end", Description: "The end."},
		},
	}
}

func TestValidate_ValidDefs(t *testing.T) {
	if err := validate(validDefs(), quiet); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*state.Defs)
		want   string
	}{
		{"empty title", func(d *state.Defs) { d.Game.Title = "" }, "title is required"},
		{"player hp", func(d *state.Defs) { d.Player.HP = 0 }, "Player.hp"},
		{"player attack", func(d *state.Defs) { d.Player.Attack = 0 }, "Player.attack"},
		{"negative heal", func(d *state.Defs) { d.Player.Heal = -1 }, "Player.heal"},
		{"negative potions", func(d *state.Defs) { d.Player.Potions = -1 }, "Player.potions"},
		{"one location", func(d *state.Defs) { d.Locations = d.Locations[:1] }, "at least 2 locations"},
		{"duplicate id", func(d *state.Defs) { d.Locations[2].ID = "cave" }, "duplicate location ID"},
		{"no description", func(d *state.Defs) { d.Locations[0].Description = "" }, "no description"},
		{"enemy at the end", func(d *state.Defs) {
			d.Locations[2].Enemy = &types.EnemyDef{Name: "Rat", HP: 1, MaxHP: 1}
		}, "must not have an enemy"},
		{"enemy without name", func(d *state.Defs) { d.Locations[1].Enemy.Name = "" }, "enemy name"},
		{"enemy without hp", func(d *state.Defs) { d.Locations[1].Enemy.HP = 0 }, "enemy hp"},
		{"max below hp", func(d *state.Defs) { d.Locations[1].Enemy.MaxHP = 1 }, "below hp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs := validDefs()
			tt.mutate(defs)

			err := validate(defs, quiet)
			if err == nil {
				t.Fatal("expected validation error")
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			assertContains(t, ve.Errors, tt.want)
		})
	}
}

func TestValidate_WarningsDoNotFail(t *testing.T) {
	defs := validDefs()
	defs.Locations[0].AdvanceLabel = ""
	defs.Locations[1].AdvanceLabel = "Ignored"

	var buf bytes.Buffer
	if err := validate(defs, log.New(&buf)); err != nil {
		t.Fatalf("warnings should not fail validation: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "no advance label") || !strings.Contains(out, "never shown") {
		t.Errorf("expected both warnings logged, got %q", out)
	}
}

var quiet = log.New(io.Discard)

// assertContains checks that at least one string in the slice contains substr.
func assertContains(t *testing.T, strs []string, substr string) {
	t.Helper()
	for _, s := range strs {
		if strings.Contains(s, substr) {
			return
		}
	}
	t.Errorf("expected one of %v to contain %q", strs, substr)
}
