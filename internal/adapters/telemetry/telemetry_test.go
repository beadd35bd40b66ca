package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/sassy/internal/adapters/telemetry"
)

func TestOTelTracer_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := telemetry.NewOTelTracerFrom(provider, "test")

	_, span := tracer.Start(context.Background(), "transform")
	span.SetAttribute("path", "/srv/a.scss")
	span.SetAttribute("bytes", 42)
	span.SetAttribute("cached", true)
	span.SetAttribute("stages", []string{"postcss"})
	span.RecordError(errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "transform", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String("path", "/srv/a.scss"))
	assert.Contains(t, ended[0].Attributes(), attribute.Int("bytes", 42))
	assert.Contains(t, ended[0].Attributes(), attribute.Bool("cached", true))
}

func TestOTelSpan_RecordNilError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := telemetry.NewOTelTracerFrom(provider, "test").Start(context.Background(), "ok")
	span.RecordError(nil)
	span.End()

	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, codes.Unset, recorder.Ended()[0].Status().Code)
}

func TestNoOpTracer(t *testing.T) {
	ctx := context.Background()
	got, span := telemetry.NewNoOpTracer().Start(ctx, "anything")

	assert.Equal(t, ctx, got)
	assert.NotPanics(t, func() {
		span.SetAttribute("k", "v")
		span.RecordError(errors.New("ignored"))
		span.End()
	})
}
