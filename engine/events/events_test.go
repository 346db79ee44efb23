package events

import (
	"testing"

	"github.com/nathoo/dragonroad/types"
)

func sampleResult() types.Result {
	return types.Result{
		Events: []types.Event{
			Log("You attack! The Slime takes 6 damage!"),
			Log("The Slime attacks! You take 2 damage!"),
			Status(types.Status{PlayerName: "Hero", PlayerHP: 38, PlayerMaxHP: 40,
				Enemy: &types.EnemyStatus{Name: "Slime", HP: 9, MaxHP: 15}}),
			Actions([]types.ActionDesc{{ID: types.ActionAttack, Label: "Attack"}}),
		},
	}
}

func TestDispatch_Order(t *testing.T) {
	rec := &Recorder{}
	Dispatch(sampleResult(), rec)

	if len(rec.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(rec.Lines))
	}
	if rec.Lines[0] != "You attack! The Slime takes 6 damage!" {
		t.Errorf("unexpected first line %q", rec.Lines[0])
	}
	if rec.Status.PlayerHP != 38 || rec.Status.Enemy == nil || rec.Status.Enemy.HP != 9 {
		t.Errorf("unexpected status %+v", rec.Status)
	}
	if rec.Statuses != 1 {
		t.Errorf("expected 1 status update, got %d", rec.Statuses)
	}
	if len(rec.Actions) != 1 || rec.Actions[0].ID != types.ActionAttack {
		t.Errorf("unexpected actions %v", rec.Actions)
	}
	if rec.Outcome != "" {
		t.Errorf("expected no outcome, got %q", rec.Outcome)
	}
}

func TestDispatch_GameEnded(t *testing.T) {
	rec := &Recorder{}
	Dispatch(types.Result{Events: []types.Event{Ended(types.OutcomeGameOver)}}, rec)

	if rec.Outcome != types.OutcomeGameOver {
		t.Errorf("expected game-over, got %q", rec.Outcome)
	}
}

func TestDispatch_Empty(t *testing.T) {
	rec := &Recorder{}
	Dispatch(types.Result{}, rec)

	if len(rec.Lines) != 0 || rec.Statuses != 0 || rec.Actions != nil {
		t.Errorf("empty result should not reach the presenter: %+v", rec)
	}
}

func TestHelpers(t *testing.T) {
	r := sampleResult()

	if lines := Lines(r); len(lines) != 2 {
		t.Errorf("Lines = %v", lines)
	}
	if st, ok := LastStatus(r); !ok || st.PlayerHP != 38 {
		t.Errorf("LastStatus = %+v, %v", st, ok)
	}
	if acts, ok := LastActions(r); !ok || len(acts) != 1 {
		t.Errorf("LastActions = %v, %v", acts, ok)
	}
	if _, ok := Outcome(r); ok {
		t.Error("expected no outcome")
	}
}
