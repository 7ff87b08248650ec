package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/checkpoint"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	sweepConfig, sweepCheckpoint, sweepChain = "", "", ""
	sweepResume, sweepMetrics, sweepTracing = false, false, false
	sweepSet = nil
	logLevel, logFormat = "info", "text"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"sweep", "catalog", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	for _, flag := range []string{"log-level", "log-format"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), "missing persistent flag %s", flag)
	}
	for _, flag := range []string{"config", "checkpoint", "resume", "chain", "metrics", "tracing", "set"} {
		assert.NotNil(t, sweepCmd.Flags().Lookup(flag), "missing sweep flag %s", flag)
	}
}

func TestLoadEnvDefaults(t *testing.T) {
	d, err := loadEnvDefaults()
	require.NoError(t, err)
	assert.Equal(t, "info", d.LogLevel)
	assert.Equal(t, "text", d.LogFormat)

	t.Setenv("BLOCKMCMC_LOG_LEVEL", "debug")
	t.Setenv("BLOCKMCMC_CHECKPOINT", "/tmp/chains.db")
	d, err = loadEnvDefaults()
	require.NoError(t, err)
	assert.Equal(t, "debug", d.LogLevel)
	assert.Equal(t, "/tmp/chains.db", d.Checkpoint)
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"text", "json", "JSON"} {
		_, err := newLogger(io.Discard, "warn", format)
		assert.NoError(t, err, format)
	}
	_, err := newLogger(io.Discard, "loud", "text")
	assert.ErrorContains(t, err, "--log-level")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "blockmcmc dev")
}

func TestCatalogCommand(t *testing.T) {
	out, err := execute(t, "catalog", "gibbs")
	require.NoError(t, err)
	assert.Contains(t, out, "gibbs:")
	assert.Contains(t, out, "(*blockmodel.State[int32], []int)")
	assert.NotContains(t, out, "mcmc:")

	out, err = execute(t, "catalog")
	require.NoError(t, err)
	for _, alg := range []string{"mcmc:", "gibbs:", "multicanonical:"} {
		assert.Contains(t, out, alg)
	}

	_, err = execute(t, "catalog", "anneal")
	assert.Error(t, err)
}

func TestSweepCommand_EdgeListWithCheckpoint(t *testing.T) {
	dir := t.TempDir()
	// Two triangles joined by one edge.
	edges := "# two triangles\n0 1\n1 2\n0 2\n3 4\n4 5\n3 5\n2 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "edges.txt"), []byte(edges), 0o644))
	run := `
algorithm: mcmc
groups: 2
seed: 1
rounds: 2
graph:
  edges: edges.txt
beta: .inf
c: .inf
niter: 3
`
	cfg := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(run), 0o644))
	db := filepath.Join(dir, "chains.db")

	out, err := execute(t, "sweep", "--config", cfg, "--checkpoint", db, "--chain", "tri")
	require.NoError(t, err)
	assert.Contains(t, out, "chain      tri")
	assert.Contains(t, out, "round      2")

	out, err = execute(t, "sweep", "--config", cfg, "--checkpoint", db, "--chain", "tri", "--resume")
	require.NoError(t, err)
	assert.Contains(t, out, "round      4")

	store, err := checkpoint.NewSQLiteStore(db)
	require.NoError(t, err)
	defer store.Close()
	infos, err := store.List("tri")
	require.NoError(t, err)
	assert.Len(t, infos, 4)
}

func TestSweepCommand_SetOverridesRunFile(t *testing.T) {
	dir := t.TempDir()
	run := `
algorithm: mcmc
groups: 2
seed: 3
rounds: 1
graph:
  n: 12
  pin: 0.6
  pout: 0.05
niter: 1
`
	cfg := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(run), 0o644))

	out, err := execute(t, "sweep", "--config", cfg, "--chain", "s",
		"--set", "rounds=3", "--set", "algorithm=gibbs", "--set", "beta=.inf")
	require.NoError(t, err)
	assert.Contains(t, out, "round      3")
	assert.Contains(t, out, "algorithm  gibbs")

	_, err = execute(t, "sweep", "--config", cfg, "--set", "rounds")
	assert.ErrorContains(t, err, "--set")

	_, err = execute(t, "sweep", "--config", cfg, "--set", "rounds=0")
	assert.Error(t, err)
}

func TestSweepCommand_Errors(t *testing.T) {
	_, err := execute(t, "sweep")
	assert.Error(t, err, "--config is required")

	_, err = execute(t, "sweep", "--config", "run.yaml", "--resume")
	assert.ErrorContains(t, err, "--resume needs")

	_, err = execute(t, "sweep", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = execute(t, "sweep", "--config", "x.yaml", "--log-format", "xml")
	assert.ErrorContains(t, err, "--log-format")
}
