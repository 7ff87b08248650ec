package main

import (
	"fmt"
	"slices"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/config"
	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/inference"
)

// Label types selectable with the "labels" key.
const (
	labelsInt32 = "int32"
	labelsInt64 = "int64"
)

// runConfig is the driver section of a run file. Every other key of the file
// is passed through to the sampler unchanged.
type runConfig struct {
	Algorithm  string           `param:"algorithm"`
	Labels     string           `param:"labels,optional"`
	Groups     int              `param:"groups"`
	Seed       uint64           `param:"seed,optional"`
	Rounds     int              `param:"rounds,optional"`
	Graph      graphConfig      `param:"graph"`
	WangLandau wangLandauConfig `param:"wang_landau,optional"`
	Marginals  bool             `param:"marginals,optional"`
}

// graphConfig selects the input graph: an edge-list file, or a planted
// partition generated from n, pin and pout.
type graphConfig struct {
	Edges string  `param:"edges,optional"`
	N     int     `param:"n,optional"`
	PIn   float64 `param:"pin,optional"`
	POut  float64 `param:"pout,optional"`
}

// wangLandauConfig sets up the energy histogram for multicanonical runs. When
// S_min and S_max are not given the range is centred on the starting
// entropy with half-width Width.
type wangLandauConfig struct {
	Bins     int     `param:"bins,optional"`
	Width    float64 `param:"width,optional"`
	SMin     float64 `param:"S_min,optional"`
	SMax     float64 `param:"S_max,optional"`
	F        float64 `param:"f,optional"`
	FMin     float64 `param:"f_min,optional"`
	Flatness float64 `param:"flatness,optional"`
}

func defaultRunConfig() runConfig {
	return runConfig{
		Labels: labelsInt64,
		Rounds: 1,
		WangLandau: wangLandauConfig{
			Bins:     50,
			F:        1,
			FMin:     1e-3,
			Flatness: 0.8,
		},
	}
}

// decodeRunConfig reads the driver section of b on top of the defaults.
func decodeRunConfig(b config.Bundle) (runConfig, error) {
	cfg := defaultRunConfig()
	if err := config.Decode(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (s runConfig) validate() error {
	algorithms := []string{inference.AlgorithmMCMC, inference.AlgorithmGibbs, inference.AlgorithmMulticanonical}
	if !slices.Contains(algorithms, s.Algorithm) {
		return fmt.Errorf("algorithm must be one of %v, got %q", algorithms, s.Algorithm)
	}
	if s.Labels != labelsInt32 && s.Labels != labelsInt64 {
		return fmt.Errorf("labels must be %q or %q, got %q", labelsInt32, labelsInt64, s.Labels)
	}
	if s.Groups < 1 {
		return fmt.Errorf("groups must be >= 1, got %d", s.Groups)
	}
	if s.Rounds < 1 {
		return fmt.Errorf("rounds must be >= 1, got %d", s.Rounds)
	}
	if s.Graph.Edges == "" && s.Graph.N < 1 {
		return fmt.Errorf("graph needs an edges file or n >= 1")
	}
	for name, p := range map[string]float64{"pin": s.Graph.PIn, "pout": s.Graph.POut} {
		if p < 0 || p > 1 {
			return fmt.Errorf("graph %s must be in [0, 1], got %v", name, p)
		}
	}
	if s.Algorithm == inference.AlgorithmMulticanonical {
		wl := s.WangLandau
		if wl.Bins < 1 {
			return fmt.Errorf("wang_landau bins must be >= 1, got %d", wl.Bins)
		}
		if wl.F <= 0 || wl.FMin <= 0 {
			return fmt.Errorf("wang_landau f and f_min must be > 0, got %v and %v", wl.F, wl.FMin)
		}
		if wl.Flatness <= 0 || wl.Flatness > 1 {
			return fmt.Errorf("wang_landau flatness must be in (0, 1], got %v", wl.Flatness)
		}
	}
	return nil
}
