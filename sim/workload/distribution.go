package workload

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/inference-sim/ersim/sim"
)

// DurationSampler draws service times in minutes.
type DurationSampler interface {
	// Sample returns a non-negative duration.
	Sample(rng *rand.Rand) float64
	// Mean returns the distribution's expected value.
	Mean() float64
}

// UniformSampler draws from U(min, max).
type UniformSampler struct {
	min, max float64
}

func (s *UniformSampler) Sample(rng *rand.Rand) float64 {
	return s.min + rng.Float64()*(s.max-s.min)
}

func (s *UniformSampler) Mean() float64 { return (s.min + s.max) / 2 }

// ExponentialSampler draws exponentially-distributed durations.
type ExponentialSampler struct {
	mean float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) float64 {
	return rng.ExpFloat64() * s.mean
}

func (s *ExponentialSampler) Mean() float64 { return s.mean }

// ConstantSampler always returns the same duration and consumes no draws.
type ConstantSampler struct {
	value float64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) float64 { return s.value }

func (s *ConstantSampler) Mean() float64 { return s.value }

// TriangularSampler draws from the triangular distribution on [min, max]
// peaking at mode, by inverse CDF.
type TriangularSampler struct {
	min, mode, max float64
}

func (s *TriangularSampler) Sample(rng *rand.Rand) float64 {
	if s.max == s.min {
		return s.min
	}
	u := rng.Float64()
	width := s.max - s.min
	cut := (s.mode - s.min) / width
	if u < cut {
		return s.min + math.Sqrt(u*width*(s.mode-s.min))
	}
	return s.max - math.Sqrt((1-u)*width*(s.max-s.mode))
}

func (s *TriangularSampler) Mean() float64 { return (s.min + s.mode + s.max) / 3 }

// requireParam checks that all required keys exist in a params map and hold
// finite, non-negative values.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		v, ok := params[k]
		if !ok {
			return fmt.Errorf("%w: distribution requires parameter %q", sim.ErrInvalidConfig, k)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: parameter %q = %v must be finite and >= 0", sim.ErrInvalidConfig, k, v)
		}
	}
	return nil
}

// NewDurationSampler creates a DurationSampler from a DistSpec.
func NewDurationSampler(spec DistSpec) (DurationSampler, error) {
	switch spec.Type {
	case "uniform":
		if err := requireParam(spec.Params, "min", "max"); err != nil {
			return nil, err
		}
		lo, hi := spec.Params["min"], spec.Params["max"]
		if hi < lo {
			return nil, fmt.Errorf("%w: uniform max %v < min %v", sim.ErrInvalidConfig, hi, lo)
		}
		return &UniformSampler{min: lo, max: hi}, nil

	case "exponential":
		if err := requireParam(spec.Params, "mean"); err != nil {
			return nil, err
		}
		return &ExponentialSampler{mean: spec.Params["mean"]}, nil

	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		return &ConstantSampler{value: spec.Params["value"]}, nil

	case "triangular":
		if err := requireParam(spec.Params, "min", "mode", "max"); err != nil {
			return nil, err
		}
		lo, mode, hi := spec.Params["min"], spec.Params["mode"], spec.Params["max"]
		if mode < lo || hi < mode {
			return nil, fmt.Errorf("%w: triangular needs min <= mode <= max, got %v/%v/%v",
				sim.ErrInvalidConfig, lo, mode, hi)
		}
		return &TriangularSampler{min: lo, mode: mode, max: hi}, nil

	default:
		return nil, fmt.Errorf("%w: unknown distribution type %q", sim.ErrInvalidConfig, spec.Type)
	}
}
