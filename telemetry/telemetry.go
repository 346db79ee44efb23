// Package telemetry provides OpenTelemetry tracing for game sessions.
package telemetry

import (
	"context"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nathoo/dragonroad/types"
)

const serviceName = "dragonroad"

// Setup initializes OpenTelemetry with an OTLP HTTP exporter configured from
// the standard OTEL_EXPORTER_OTLP_* environment variables.
//
// Returns a shutdown function that should be called on application exit.
func Setup(ctx context.Context, version string) (shutdown func(context.Context) error, err error) {
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	// Own resource, not merged with Default(), to avoid schema URL conflicts.
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", version),
			attribute.String("host.name", hostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns a named tracer for the given component.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(serviceName + "/" + name)
}

// NoopTracer returns a no-op tracer for use when telemetry is disabled.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(serviceName + "/noop")
}

// TraceAction runs one player action inside an "action.<id>" span and
// records the scene before and after it.
func TraceAction(ctx context.Context, tracer trace.Tracer, id types.ActionID, s *types.State, run func() types.Result) types.Result {
	_, span := tracer.Start(ctx, "action."+string(id))
	defer span.End()

	span.SetAttributes(
		attribute.String("action", string(id)),
		attribute.String("mode.before", string(s.Mode)),
		attribute.Int("cursor.before", s.Cursor),
	)

	result := run()

	span.SetAttributes(
		attribute.String("mode.after", string(s.Mode)),
		attribute.Int("cursor.after", s.Cursor),
		attribute.Int("player.hp", s.Player.HP),
		attribute.Int("effects", len(result.Effects)),
		attribute.Bool("ignored", len(result.Events) == 0),
	)
	if s.Enemy != nil {
		span.SetAttributes(
			attribute.String("enemy.name", s.Enemy.Name),
			attribute.Int("enemy.hp", s.Enemy.HP),
		)
	}
	return result
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
