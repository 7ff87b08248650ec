package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &rec))
	return rec
}

func TestEnrichLogger(t *testing.T) {
	logger, buf := newJSONLogger()

	EnrichLogger(logger, "run-1", "mcmc", "(a, b)").Info("x")
	rec := lastRecord(t, buf)
	assert.Equal(t, "run-1", rec["run_id"])
	assert.Equal(t, "mcmc", rec["algorithm"])
	assert.Equal(t, "(a, b)", rec["entry"])

	assert.Nil(t, EnrichLogger(nil, "r", "a", "e"))
}

func TestLogSweepLifecycle(t *testing.T) {
	logger, buf := newJSONLogger()

	LogSweepStart(logger, "run-1", "gibbs", 3)
	rec := lastRecord(t, buf)
	assert.Equal(t, "sweep starting", rec["msg"])
	assert.Equal(t, float64(3), rec["niter"])

	LogSweepComplete(logger, "run-1", -2.5, 10, 4, 1.25)
	rec = lastRecord(t, buf)
	assert.Equal(t, "sweep completed", rec["msg"])
	assert.Equal(t, -2.5, rec["delta_s"])
	assert.Equal(t, float64(10), rec["attempts"])
	assert.Equal(t, float64(4), rec["moves"])

	LogSweepError(logger, "run-1", errors.New("boom"))
	rec = lastRecord(t, buf)
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "boom", rec["error"])
}

func TestLogMove(t *testing.T) {
	logger, buf := newJSONLogger()

	LogMove(logger, 7, 1, 2, true, -0.5, 0.1, 0.6, 12.0)
	rec := lastRecord(t, buf)
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, float64(7), rec["vertex"])
	assert.Equal(t, float64(1), rec["from"])
	assert.Equal(t, float64(2), rec["to"])
	assert.Equal(t, true, rec["accepted"])
}

func TestLogDispatchAndCheckpoint(t *testing.T) {
	logger, buf := newJSONLogger()

	LogDispatchError(logger, "mcmc", errors.New("no match"))
	rec := lastRecord(t, buf)
	assert.Equal(t, "mcmc", rec["catalog"])

	LogCheckpoint(logger, "wl", 128)
	rec = lastRecord(t, buf)
	assert.Equal(t, float64(128), rec["size_bytes"])

	LogCheckpointError(logger, "wl", "save", errors.New("disk"))
	rec = lastRecord(t, buf)
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "save", rec["operation"])
}

func TestLogHelpers_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogSweepStart(nil, "", "", 0)
		LogSweepComplete(nil, "", 0, 0, 0, 0)
		LogSweepError(nil, "", errors.New("x"))
		LogDispatchError(nil, "", errors.New("x"))
		LogMove(nil, 0, 0, 0, false, 0, 0, 0, 0)
		LogCheckpoint(nil, "", 0)
		LogCheckpointError(nil, "", "", errors.New("x"))
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	assert.GreaterOrEqual(t, done(), 0.0)
}
