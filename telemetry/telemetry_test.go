package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/nathoo/dragonroad/types"
)

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTraceAction_RecordsScene(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tracer := tp.Tracer("test")

	s := &types.State{Mode: types.ModeMap, Cursor: 1, Player: types.Character{HP: 40}}
	result := TraceAction(context.Background(), tracer, types.ActionFight, s, func() types.Result {
		s.Mode = types.ModeBattle
		s.Enemy = &types.Character{Name: "Slime", HP: 15}
		return types.Result{
			Effects: []types.Effect{{Type: "spawn_enemy"}},
			Events:  []types.Event{{Kind: types.EventLog, Text: "You face the Slime!"}},
		}
	})

	if len(result.Events) != 1 {
		t.Fatalf("result not passed through: %+v", result)
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "action.fight" {
		t.Errorf("span name = %q", spans[0].Name())
	}

	a := attrs(spans[0])
	if a["mode.before"].AsString() != "map" || a["mode.after"].AsString() != "battle" {
		t.Errorf("mode attributes = %v / %v", a["mode.before"], a["mode.after"])
	}
	if a["enemy.name"].AsString() != "Slime" || a["enemy.hp"].AsInt64() != 15 {
		t.Errorf("enemy attributes = %v / %v", a["enemy.name"], a["enemy.hp"])
	}
	if a["ignored"].AsBool() {
		t.Error("action with events should not be marked ignored")
	}
}

func TestTraceAction_Ignored(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	s := &types.State{Mode: types.ModeMap}
	TraceAction(context.Background(), tp.Tracer("test"), types.ActionAttack, s, func() types.Result {
		return types.Result{}
	})

	a := attrs(sr.Ended()[0])
	if !a["ignored"].AsBool() {
		t.Error("empty result should be marked ignored")
	}
	if _, ok := a["enemy.name"]; ok {
		t.Error("no enemy attributes expected outside battle")
	}
}

func TestNoopTracer(t *testing.T) {
	s := &types.State{Mode: types.ModeMap}
	called := false
	TraceAction(context.Background(), NoopTracer(), types.ActionLook, s, func() types.Result {
		called = true
		return types.Result{}
	})
	if !called {
		t.Error("action should run under the no-op tracer")
	}
}
