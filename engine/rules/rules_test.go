package rules

import (
	"testing"

	"github.com/nathoo/dragonroad/engine/state"
	"github.com/nathoo/dragonroad/types"
)

func testDefs() *state.Defs {
	return &state.Defs{
		Game:   types.GameDef{Title: "Test"},
		Player: types.PlayerDef{Name: "Hero", HP: 40, Attack: 6, Heal: 4, Potions: 1},
		Locations: []types.LocationDef{
			{ID: "village", Description: "A quiet village.", AdvanceLabel: "Step outside"},
			{ID: "forest", Description: "A slime appears!", Enemy: &types.EnemyDef{Name: "Slime", HP: 15, MaxHP: 15, Attack: 3}},
			{ID: "ending", Description: "Peace returns."},
		},
	}
}

func ids(actions []types.ActionDesc) []types.ActionID {
	out := make([]types.ActionID, len(actions))
	for i, a := range actions {
		out[i] = a.ID
	}
	return out
}

func equalIDs(a, b []types.ActionID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func battleState(defs *state.Defs) *types.State {
	s := state.NewState(defs)
	s.Cursor = 1
	state.SpawnEnemy(s, *defs.Locations[1].Enemy)
	s.Mode = types.ModeBattle
	return s
}

func TestAvailable(t *testing.T) {
	defs := testDefs()

	tests := []struct {
		name  string
		setup func() *types.State
		want  []types.ActionID
	}{
		{
			name:  "village offers advance",
			setup: func() *types.State { return state.NewState(defs) },
			want:  []types.ActionID{types.ActionAdvance},
		},
		{
			name: "enemy ahead offers fight",
			setup: func() *types.State {
				s := state.NewState(defs)
				s.Cursor = 1
				return s
			},
			want: []types.ActionID{types.ActionFight},
		},
		{
			name:  "battle with potion",
			setup: func() *types.State { return battleState(defs) },
			want:  []types.ActionID{types.ActionAttack, types.ActionHeal, types.ActionItemMenu},
		},
		{
			name: "battle without potion hides item",
			setup: func() *types.State {
				s := battleState(defs)
				s.Inventory[state.ItemPotion] = 0
				return s
			},
			want: []types.ActionID{types.ActionAttack, types.ActionHeal},
		},
		{
			name: "item menu",
			setup: func() *types.State {
				s := battleState(defs)
				s.ItemMenu = true
				return s
			},
			want: []types.ActionID{types.ActionUsePotion, types.ActionBack},
		},
		{
			name: "item menu empty",
			setup: func() *types.State {
				s := battleState(defs)
				s.ItemMenu = true
				s.Inventory[state.ItemPotion] = 0
				return s
			},
			want: []types.ActionID{types.ActionBack},
		},
		{
			name: "game over offers restart only",
			setup: func() *types.State {
				s := battleState(defs)
				state.DamagePlayer(s, 99)
				return s
			},
			want: []types.ActionID{types.ActionRestart},
		},
		{
			name: "victory offers restart only",
			setup: func() *types.State {
				s := state.NewState(defs)
				s.Cursor = 2
				s.Mode = types.ModeVictory
				return s
			},
			want: []types.ActionID{types.ActionRestart},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Available(tt.setup(), defs))
			if !equalIDs(got, tt.want) {
				t.Errorf("Available = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLegal_CombatOutsideBattle(t *testing.T) {
	defs := testDefs()
	s := state.NewState(defs)

	for _, id := range []types.ActionID{types.ActionAttack, types.ActionHeal, types.ActionUsePotion, types.ActionItemMenu, types.ActionBack, types.ActionRestart, types.ActionFight} {
		if Legal(s, defs, id) {
			t.Errorf("%s should not be legal in the village", id)
		}
	}
	if !Legal(s, defs, types.ActionLook) {
		t.Error("look should always be legal")
	}
}

func TestLegal_UsePotionEmptyStillLegal(t *testing.T) {
	defs := testDefs()
	s := battleState(defs)
	s.Inventory[state.ItemPotion] = 0

	if !Legal(s, defs, types.ActionUsePotion) {
		t.Error("use_potion should stay legal in battle so the failure can be reported")
	}
}

func TestLegal_Unknown(t *testing.T) {
	defs := testDefs()
	if Legal(state.NewState(defs), defs, types.ActionID("dance")) {
		t.Error("unknown action should not be legal")
	}
}

func TestAvailable_Labels(t *testing.T) {
	defs := testDefs()

	got := Available(state.NewState(defs), defs)
	if len(got) != 1 || got[0].Label != "Step outside" {
		t.Errorf("expected advance label from location, got %v", got)
	}

	s := state.NewState(defs)
	s.Cursor = 1
	got = Available(s, defs)
	if len(got) != 1 || got[0].Label != "Fight the Slime" {
		t.Errorf("expected fight label naming the enemy, got %v", got)
	}

	s = battleState(defs)
	s.ItemMenu = true
	got = Available(s, defs)
	if len(got) == 0 || got[0].Label != "Use potion (1 left)" {
		t.Errorf("expected potion count in label, got %v", got)
	}
}
