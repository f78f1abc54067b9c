package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsFromEnvDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("OTEL_TRACES_EXPORTER", "")
	t.Setenv("ENVIRONMENT", "")

	settings, err := SettingsFromEnv("svc")
	require.NoError(t, err)
	assert.Equal(t, "svc", settings.ServiceName)
	assert.Equal(t, "local", settings.Environment)
	assert.Equal(t, slog.LevelInfo, settings.LogLevel)
	assert.Equal(t, ExporterOTLP, settings.TraceExporter)
}

func TestSettingsFromEnvRejectsUnknownValues(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "zipkin")
	_, err := SettingsFromEnv("svc")
	require.Error(t, err)

	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	t.Setenv("LOG_LEVEL", "loud")
	_, err = SettingsFromEnv("svc")
	require.Error(t, err)

	t.Setenv("LOG_LEVEL", "debug")
	settings, err := SettingsFromEnv("svc")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, settings.LogLevel)
}

func TestInitWithSettingsLogsAndCountsWithoutExporter(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	instruments, shutdown, err := InitWithSettings(ctx, Settings{
		ServiceName:   "stock-tracker-test",
		Environment:   "test",
		LogLevel:      slog.LevelInfo,
		LogOutput:     &logs,
		TraceExporter: ExporterNone,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	instruments.Logger.Debug("hidden")
	instruments.Logger.Info("visible")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(logs.Bytes()), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "stock-tracker-test", entry["service"])

	counter, err := instruments.Meter("test").Int64Counter("stock_requests")
	require.NoError(t, err)
	counter.Add(ctx, 2)
	counter.Add(ctx, 3)

	totals, err := instruments.CounterTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), totals["stock_requests"])
}

func TestNilInstrumentsFallBack(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.Tracer("x"))
	assert.NotNil(t, instruments.Meter("x"))
	totals, err := instruments.CounterTotals(context.Background())
	require.NoError(t, err)
	assert.Empty(t, totals)
}
