package infrastructure

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveycharts/internal/config"
)

func TestInitializeTelemetry_MetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	metricsFile := filepath.Join(dir, "metrics", "surveycharts.prom")

	tel, err := InitializeTelemetry(config.TelemetryConfig{
		ServiceName: "surveycharts-test",
		MetricsFile: metricsFile,
		SampleRatio: 1,
	}, NewJSONLogger(os.Stderr, "error"))
	require.NoError(t, err)
	require.NotNil(t, tel.Metrics)
	assert.Nil(t, tel.TracerProvider, "tracing disabled by default")

	ctx := context.Background()
	tel.RecordChart(ctx, "question")
	tel.RecordChart(ctx, "question")
	tel.RecordChart(ctx, "global")
	tel.RecordLoad(ctx, 2, 7)
	tel.RecordStep(ctx, "load", 150*time.Millisecond, nil)
	tel.RecordStep(ctx, "global_chart", time.Millisecond, errors.New("boom"))

	families, err := tel.registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	require.NoError(t, tel.Shutdown(ctx))

	content, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "survey_charts_rendered")
	assert.Contains(t, text, `scope="question"`)
	assert.Contains(t, text, "survey_rows_loaded")
	assert.Contains(t, text, "survey_step_duration")
	assert.Contains(t, text, `status="failure"`)
}

func TestInitializeTelemetry_TraceFile(t *testing.T) {
	traceFile := filepath.Join(t.TempDir(), "trace.json")

	tel, err := InitializeTelemetry(config.TelemetryConfig{
		ServiceName: "surveycharts-test",
		Tracing:     true,
		TraceFile:   traceFile,
		SampleRatio: 1,
	}, NewJSONLogger(os.Stderr, "error"))
	require.NoError(t, err)
	require.NotNil(t, tel.TracerProvider)

	ctx, span := tel.StartSpan(context.Background(), "load")
	RecordError(span, errors.New("bad header"))
	span.End()
	assert.NotNil(t, ctx)

	require.NoError(t, tel.Shutdown(context.Background()))

	content, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"Name": "load"`)
	assert.Contains(t, string(content), "bad header")
}

func TestTelemetry_NilSafe(t *testing.T) {
	var tel *Telemetry
	ctx := context.Background()

	assert.NotPanics(t, func() {
		tel.RecordChart(ctx, "question")
		tel.RecordLoad(ctx, 1, 1)
		tel.RecordStep(ctx, "load", time.Second, nil)
		_, span := tel.StartSpan(ctx, "noop")
		RecordError(span, errors.New("ignored"))
		span.End()
	})
	assert.NoError(t, tel.Shutdown(ctx))
}
