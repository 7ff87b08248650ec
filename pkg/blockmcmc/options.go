package blockmcmc

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/observability"
)

// runConfig holds per-invocation observability settings.
type runConfig struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	runID   string
	entry   string
}

func defaultRunConfig() runConfig {
	return runConfig{
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// RunOption configures one Sweep call.
type RunOption func(*runConfig)

// WithLogger sets the logger for sweep lifecycle and verbose move logs.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables metrics recording.
//
// Example:
//
//	res, err := s.Sweep(ctx, rng, blockmcmc.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) RunOption {
	return func(c *runConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables a span per Sweep call.
func WithTracing(sm observability.SpanManager) RunOption {
	return func(c *runConfig) {
		if sm != nil {
			c.spans = sm
		}
	}
}

// WithRunID sets the run identifier attached to logs and spans.
// Default: a random UUID per call.
func WithRunID(id string) RunOption {
	return func(c *runConfig) {
		c.runID = id
	}
}

// WithEntry records which catalog entry built the sampler.
func WithEntry(signature string) RunOption {
	return func(c *runConfig) {
		c.entry = signature
	}
}

func applyRunOptions(opts []RunOption) runConfig {
	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.runID == "" {
		cfg.runID = uuid.NewString()
	}
	return cfg
}

// Observers returns the logger and metrics recorder selected by opts, for
// callers that report failures outside a Sweep call.
func Observers(opts ...RunOption) (*slog.Logger, observability.MetricsRecorder) {
	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg.logger, cfg.metrics
}
