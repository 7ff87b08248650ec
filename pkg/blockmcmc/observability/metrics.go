package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records sampler metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordSweep records one sweep batch with its duration, attempted and
	// accepted weight, and error status.
	RecordSweep(ctx context.Context, algorithm string, duration time.Duration, attempts, moves int, err error)

	// RecordDispatchError records a bundle that no catalog entry accepted.
	RecordDispatchError(ctx context.Context, catalog string)

	// RecordCheckpoint records a checkpoint save operation.
	RecordCheckpoint(ctx context.Context, key string, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	sweepRuns      metric.Int64Counter
	sweepLatency   metric.Float64Histogram
	sweepAttempts  metric.Int64Counter
	sweepMoves     metric.Int64Counter
	dispatchErrors metric.Int64Counter
	checkpointSize metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("blockmcmc")

	sweepRuns, err := meter.Int64Counter("blockmcmc.sweep.runs",
		metric.WithDescription("Number of sweep batches"),
	)
	if err != nil {
		return nil, err
	}

	sweepLatency, err := meter.Float64Histogram("blockmcmc.sweep.latency_ms",
		metric.WithDescription("Sweep batch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	sweepAttempts, err := meter.Int64Counter("blockmcmc.sweep.attempts",
		metric.WithDescription("Attempted move weight"),
	)
	if err != nil {
		return nil, err
	}

	sweepMoves, err := meter.Int64Counter("blockmcmc.sweep.moves",
		metric.WithDescription("Accepted move weight"),
	)
	if err != nil {
		return nil, err
	}

	dispatchErrors, err := meter.Int64Counter("blockmcmc.dispatch.errors",
		metric.WithDescription("Number of bundles no catalog entry accepted"),
	)
	if err != nil {
		return nil, err
	}

	checkpointSize, err := meter.Int64Histogram("blockmcmc.checkpoint.size_bytes",
		metric.WithDescription("Checkpoint size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		sweepRuns:      sweepRuns,
		sweepLatency:   sweepLatency,
		sweepAttempts:  sweepAttempts,
		sweepMoves:     sweepMoves,
		dispatchErrors: dispatchErrors,
		checkpointSize: checkpointSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordSweep records a sweep batch.
func (m *otelMetrics) RecordSweep(ctx context.Context, algorithm string, duration time.Duration, attempts, moves int, err error) {
	attrs := metric.WithAttributes(
		attribute.String("algorithm", algorithm),
		attribute.Bool("success", err == nil),
	)
	m.sweepRuns.Add(ctx, 1, attrs)
	m.sweepLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err != nil {
		return
	}
	algo := metric.WithAttributes(attribute.String("algorithm", algorithm))
	m.sweepAttempts.Add(ctx, int64(attempts), algo)
	m.sweepMoves.Add(ctx, int64(moves), algo)
}

// RecordDispatchError records a dispatch failure.
func (m *otelMetrics) RecordDispatchError(ctx context.Context, catalog string) {
	m.dispatchErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("catalog", catalog)))
}

// RecordCheckpoint records a checkpoint save.
func (m *otelMetrics) RecordCheckpoint(ctx context.Context, key string, sizeBytes int64) {
	m.checkpointSize.Record(ctx, sizeBytes, metric.WithAttributes(attribute.String("key", key)))
}
