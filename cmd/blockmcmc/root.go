package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "blockmcmc",
	Short: "Block-model MCMC samplers",
	Long: `blockmcmc infers group structure in graphs by sampling partitions of a
stochastic block model with Metropolis-Hastings, Gibbs, or multicanonical
sweeps.`,
	SilenceUsage: true,
}

// envDefaults are flag defaults read from the environment. Flags given on
// the command line win.
type envDefaults struct {
	LogLevel   string `env:"BLOCKMCMC_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"BLOCKMCMC_LOG_FORMAT" envDefault:"text"`
	Checkpoint string `env:"BLOCKMCMC_CHECKPOINT"`
}

func loadEnvDefaults() (envDefaults, error) {
	var d envDefaults
	if err := env.Parse(&d); err != nil {
		return envDefaults{LogLevel: "info", LogFormat: "text"}, fmt.Errorf("parse env: %w", err)
	}
	return d, nil
}

func init() {
	defaults, _ := loadEnvDefaults()
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaults.LogLevel,
		"log level (debug, info, warn, error) [$BLOCKMCMC_LOG_LEVEL]")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", defaults.LogFormat,
		"log format (text, json) [$BLOCKMCMC_LOG_FORMAT]")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the process logger from the persistent flags.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid --log-format %q: want text or json", format)
}
