package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest installs a manual-reader meter provider for the test.
func setupMetricsTest(t *testing.T) *sdkmetric.ManualReader {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	original := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	t.Cleanup(func() {
		otel.SetMeterProvider(original)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	})
	return reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumInt64(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected Sum[int64], got %T", m.Data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewMetricsRecorder(t *testing.T) {
	setupMetricsTest(t)

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)
	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop)
}

func TestRecordSweep(t *testing.T) {
	reader := setupMetricsTest(t)
	m, err := newOtelMetrics()
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordSweep(ctx, "mcmc", 5*time.Millisecond, 10, 4, nil)
	m.RecordSweep(ctx, "gibbs", 2*time.Millisecond, 6, 1, nil)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(2), sumInt64(t, findMetric(rm, "blockmcmc.sweep.runs")))
	assert.Equal(t, int64(16), sumInt64(t, findMetric(rm, "blockmcmc.sweep.attempts")))
	assert.Equal(t, int64(5), sumInt64(t, findMetric(rm, "blockmcmc.sweep.moves")))

	latency := findMetric(rm, "blockmcmc.sweep.latency_ms")
	require.NotNil(t, latency)
	hist, ok := latency.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}

func TestRecordSweep_ErrorSkipsCounts(t *testing.T) {
	reader := setupMetricsTest(t)
	m, err := newOtelMetrics()
	require.NoError(t, err)

	m.RecordSweep(context.Background(), "mcmc", time.Millisecond, 10, 4, errors.New("bad bundle"))

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(1), sumInt64(t, findMetric(rm, "blockmcmc.sweep.runs")))
	assert.Nil(t, findMetric(rm, "blockmcmc.sweep.moves"))
}

func TestRecordDispatchErrorAndCheckpoint(t *testing.T) {
	reader := setupMetricsTest(t)
	m, err := newOtelMetrics()
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordDispatchError(ctx, "mcmc")
	m.RecordCheckpoint(ctx, "wl", 512)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(1), sumInt64(t, findMetric(rm, "blockmcmc.dispatch.errors")))

	size := findMetric(rm, "blockmcmc.checkpoint.size_bytes")
	require.NotNil(t, size)
	hist, ok := size.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, int64(512), hist.DataPoints[0].Sum)
}
