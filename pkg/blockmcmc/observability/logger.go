// Package observability provides structured logging, metrics, and tracing
// for sampler runs.
//
// Features:
//   - Structured logging via slog
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds run context to a logger.
// Returns a new logger with run_id, algorithm, and entry fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "run-123", "mcmc", "(*blockmodel.State[int32], []int)")
//	enriched.Info("sweeping") // includes run_id, algorithm, entry
func EnrichLogger(logger *slog.Logger, runID, algorithm, entry string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.String("algorithm", algorithm),
		slog.String("entry", entry),
	)
}

// LogSweepStart logs the start of a sweep batch.
func LogSweepStart(logger *slog.Logger, runID, algorithm string, niter int) {
	if logger == nil {
		return
	}
	logger.Info("sweep starting",
		slog.String("run_id", runID),
		slog.String("algorithm", algorithm),
		slog.Int("niter", niter),
	)
}

// LogSweepComplete logs a finished sweep batch.
func LogSweepComplete(logger *slog.Logger, runID string, deltaS float64, attempts, moves int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("sweep completed",
		slog.String("run_id", runID),
		slog.Float64("delta_s", deltaS),
		slog.Int("attempts", attempts),
		slog.Int("moves", moves),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogSweepError logs a sweep batch that failed before running.
func LogSweepError(logger *slog.Logger, runID string, err error) {
	if logger == nil {
		return
	}
	logger.Error("sweep failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
	)
}

// LogDispatchError logs a bundle that matched no catalog entry.
func LogDispatchError(logger *slog.Logger, catalog string, err error) {
	if logger == nil {
		return
	}
	logger.Error("dispatch failed",
		slog.String("catalog", catalog),
		slog.String("error", err.Error()),
	)
}

// LogMove logs a single vertex visit. It is emitted at debug level only
// when verbose sampling is requested.
func LogMove(logger *slog.Logger, v int, from, to int64, accepted bool, dS, mP, a, S float64) {
	if logger == nil {
		return
	}
	logger.Debug("move",
		slog.Int("vertex", v),
		slog.Int64("from", from),
		slog.Int64("to", to),
		slog.Bool("accepted", accepted),
		slog.Float64("dS", dS),
		slog.Float64("mP", mP),
		slog.Float64("a", a),
		slog.Float64("S", S),
	)
}

// LogCheckpoint logs a saved sampler snapshot.
func LogCheckpoint(logger *slog.Logger, key string, sizeBytes int) {
	if logger == nil {
		return
	}
	logger.Debug("checkpoint saved",
		slog.String("key", key),
		slog.Int("size_bytes", sizeBytes),
	)
}

// LogCheckpointError logs checkpoint failure (non-fatal).
func LogCheckpointError(logger *slog.Logger, key, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("checkpoint failed",
		slog.String("key", key),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... sweep ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
