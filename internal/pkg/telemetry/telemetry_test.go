package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func restoreGlobal(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
}

func TestNewTracerProvider_Stdout(t *testing.T) {
	restoreGlobal(t)
	var buf bytes.Buffer

	tp, err := NewTracerProvider(context.Background(), Config{
		ServiceName: "staff-auth",
		Version:     "test",
		Env:         "test",
		Exporter:    ExporterStdout,
		SampleRatio: 1,
		Output:      &buf,
	})
	require.NoError(t, err)
	assert.Same(t, tp, otel.GetTracerProvider())

	_, span := otel.Tracer("test").Start(context.Background(), "auth.login")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	out := buf.String()
	assert.True(t, strings.Contains(out, `"Name":"auth.login"`), "span not exported: %s", out)
	assert.Contains(t, out, "staff-auth")
}

func TestNewTracerProvider_NoneStillRecords(t *testing.T) {
	restoreGlobal(t)

	tp, err := NewTracerProvider(context.Background(), Config{ServiceName: "staff-auth", Exporter: ExporterNone, SampleRatio: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "x")
	defer span.End()
	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.IsRecording())
}

func TestNewTracerProvider_ZeroRatioDoesNotSample(t *testing.T) {
	restoreGlobal(t)

	tp, err := NewTracerProvider(context.Background(), Config{ServiceName: "staff-auth"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "x")
	defer span.End()
	assert.False(t, span.SpanContext().TraceFlags().IsSampled())
	assert.False(t, span.IsRecording())
}

func TestNewTracerProvider_BadExporter(t *testing.T) {
	restoreGlobal(t)

	_, err := NewTracerProvider(context.Background(), Config{Exporter: "jaeger-thrift"})
	assert.ErrorContains(t, err, "unknown trace exporter")

	_, err = NewTracerProvider(context.Background(), Config{Exporter: ExporterOTLP})
	assert.ErrorContains(t, err, "endpoint")
}

func TestNewTracerProvider_OTLP(t *testing.T) {
	restoreGlobal(t)

	// the grpc connection is lazy, so construction succeeds without a collector
	tp, err := NewTracerProvider(context.Background(), Config{
		ServiceName:  "staff-auth",
		Exporter:     ExporterOTLP,
		OTLPEndpoint: "127.0.0.1:4317",
		OTLPInsecure: true,
		SampleRatio:  0.5,
	})
	require.NoError(t, err)
	assert.Same(t, tp, otel.GetTracerProvider())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = tp.Shutdown(ctx)
}
