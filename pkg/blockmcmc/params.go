package blockmcmc

import (
	"fmt"
	"math"
	"runtime"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/config"
)

// Out-of-range policies for multicanonical targets.
const (
	OutOfRangeReject = "reject"
	OutOfRangeClamp  = "clamp"
)

// EntropyParams are the objective flags forwarded to VirtualMove.
type EntropyParams struct {
	Dense       bool `param:"dense,optional"`
	Multigraph  bool `param:"multigraph,optional"`
	PartitionDL bool `param:"partition_dl,optional"`
	DegreeDL    bool `param:"degree_dl,optional"`
	EdgesDL     bool `param:"edges_dl,optional"`
	E           int  `param:"E,optional"`
}

// Args converts the flags to EntropyArgs.
func (p EntropyParams) Args() EntropyArgs {
	return EntropyArgs{
		Dense:       p.Dense,
		Multigraph:  p.Multigraph,
		PartitionDL: p.PartitionDL,
		DegreeDL:    p.DegreeDL,
		EdgesDL:     p.EdgesDL,
		E:           p.E,
	}
}

// dl reports whether any description-length term is enabled.
func (p EntropyParams) dl() bool {
	return p.PartitionDL || p.DegreeDL || p.EdgesDL
}

// ScheduleParams control the vertex visiting order.
type ScheduleParams struct {
	NIter         int  `param:"niter"`
	Sequential    bool `param:"sequential,optional"`
	Deterministic bool `param:"deterministic,optional"`
	Verbose       bool `param:"verbose,optional"`
}

// MCMCParams configure the Metropolis-Hastings sampler.
type MCMCParams[L Label] struct {
	Beta       float64 `param:"beta"`
	C          float64 `param:"c"`
	BlockList  []L     `param:"block_list,optional"`
	AllowEmpty bool    `param:"allow_empty,optional"`
	Parallel   bool    `param:"parallel,optional"`
	Workers    int     `param:"workers,optional"`
	ScheduleParams
	EntropyParams
}

// DefaultMCMCParams returns the parameters used for fields a bundle omits.
func DefaultMCMCParams[L Label]() MCMCParams[L] {
	return MCMCParams[L]{
		Beta:           1,
		C:              1,
		ScheduleParams: ScheduleParams{NIter: 1, Sequential: true},
	}
}

// DecodeMCMCParams reads MCMCParams from a bundle on top of the defaults.
func DecodeMCMCParams[L Label](b config.Bundle) (MCMCParams[L], error) {
	p := DefaultMCMCParams[L]()
	if err := config.Decode(b, &p); err != nil {
		return p, err
	}
	return p, p.Validate()
}

// Validate checks value ranges.
func (p MCMCParams[L]) Validate() error {
	if err := validateBeta(p.Beta); err != nil {
		return err
	}
	if err := validateC(p.C); err != nil {
		return err
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidParams, p.Workers)
	}
	return p.ScheduleParams.validate()
}

func (p MCMCParams[L]) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// GibbsParams configure the Gibbs sampler. BlockList is the candidate set
// for the full conditional.
type GibbsParams[L Label] struct {
	Beta       float64 `param:"beta"`
	BlockList  []L     `param:"block_list"`
	AllowEmpty bool    `param:"allow_empty,optional"`
	ScheduleParams
	EntropyParams
}

// DefaultGibbsParams returns the parameters used for fields a bundle omits.
func DefaultGibbsParams[L Label]() GibbsParams[L] {
	return GibbsParams[L]{
		Beta:           1,
		ScheduleParams: ScheduleParams{NIter: 1, Sequential: true},
	}
}

// DecodeGibbsParams reads GibbsParams from a bundle on top of the defaults.
func DecodeGibbsParams[L Label](b config.Bundle) (GibbsParams[L], error) {
	p := DefaultGibbsParams[L]()
	if err := config.Decode(b, &p); err != nil {
		return p, err
	}
	return p, p.Validate()
}

// Validate checks value ranges.
func (p GibbsParams[L]) Validate() error {
	if err := validateBeta(p.Beta); err != nil {
		return err
	}
	return p.ScheduleParams.validate()
}

// MulticanonicalParams configure the multicanonical sampler. Hist and Dens
// are owned by the caller and updated in place.
type MulticanonicalParams[L Label] struct {
	C          float64   `param:"c"`
	BlockList  []L       `param:"block_list,optional"`
	AllowEmpty bool      `param:"allow_empty,optional"`
	Hist       []int     `param:"hist"`
	Dens       []float64 `param:"dens"`
	SMin       float64   `param:"S_min"`
	SMax       float64   `param:"S_max"`
	F          float64   `param:"f"`
	S          float64   `param:"S"`
	OutOfRange string    `param:"out_of_range,optional"`
	ScheduleParams
	EntropyParams
}

// DefaultMulticanonicalParams returns the parameters used for fields a
// bundle omits.
func DefaultMulticanonicalParams[L Label]() MulticanonicalParams[L] {
	return MulticanonicalParams[L]{
		C:              1,
		OutOfRange:     OutOfRangeReject,
		ScheduleParams: ScheduleParams{NIter: 1, Sequential: true},
	}
}

// DecodeMulticanonicalParams reads MulticanonicalParams from a bundle on
// top of the defaults.
func DecodeMulticanonicalParams[L Label](b config.Bundle) (MulticanonicalParams[L], error) {
	p := DefaultMulticanonicalParams[L]()
	if err := config.Decode(b, &p); err != nil {
		return p, err
	}
	return p, p.Validate()
}

// Validate checks value ranges and that the histogram and density arrays
// describe the same bins.
func (p MulticanonicalParams[L]) Validate() error {
	if err := validateC(p.C); err != nil {
		return err
	}
	if len(p.Hist) == 0 || len(p.Hist) != len(p.Dens) {
		return fmt.Errorf("%w: hist and dens must be non-empty and equal length, got %d and %d",
			ErrInvalidParams, len(p.Hist), len(p.Dens))
	}
	if !(p.SMax > p.SMin) || math.IsInf(p.SMin, 0) || math.IsInf(p.SMax, 0) {
		return fmt.Errorf("%w: need finite S_min < S_max, got [%v, %v]", ErrInvalidParams, p.SMin, p.SMax)
	}
	if math.IsNaN(p.F) || p.F < 0 {
		return fmt.Errorf("%w: f must be >= 0, got %v", ErrInvalidParams, p.F)
	}
	switch p.OutOfRange {
	case OutOfRangeReject, OutOfRangeClamp:
	default:
		return fmt.Errorf("%w: out_of_range must be %q or %q, got %q",
			ErrInvalidParams, OutOfRangeReject, OutOfRangeClamp, p.OutOfRange)
	}
	return p.ScheduleParams.validate()
}

func (p ScheduleParams) validate() error {
	if p.NIter < 0 {
		return fmt.Errorf("%w: niter must be >= 0, got %d", ErrInvalidParams, p.NIter)
	}
	return nil
}

func validateBeta(beta float64) error {
	if math.IsNaN(beta) || beta < 0 {
		return fmt.Errorf("%w: beta must be >= 0, got %v", ErrInvalidParams, beta)
	}
	return nil
}

func validateC(c float64) error {
	if math.IsNaN(c) || c < 0 {
		return fmt.Errorf("%w: c must be >= 0, got %v", ErrInvalidParams, c)
	}
	return nil
}
