package workload

import (
	"fmt"
	"math"

	"github.com/inference-sim/ersim/sim"
)

// DistSpec configures a service-time distribution. Params are in minutes.
//
//	uniform:     min, max
//	exponential: mean
//	constant:    value
//	triangular:  min, mode, max
type DistSpec struct {
	Type   string             `yaml:"type" json:"type"`
	Params map[string]float64 `yaml:"params,omitempty" json:"params,omitempty"`
}

// Validate checks the type and parameters without building a sampler.
func (d DistSpec) Validate() error {
	_, err := NewDurationSampler(d)
	return err
}

// ArrivalProfile modulates the arrival rate by day of week and by time-of-day
// block. All factors are rate multipliers: a factor of 2 halves the mean
// inter-arrival time.
type ArrivalProfile struct {
	// BaseInterval is the mean inter-arrival time in minutes when both factors are 1.
	BaseInterval float64 `yaml:"base_interval"`
	// DayFactors is indexed by day of week, day 0 being the first simulated day.
	DayFactors [7]float64 `yaml:"day_factors"`
	// BlockFactors is indexed by time-of-day block; the blocks must cover 24 hours.
	BlockFactors    []float64 `yaml:"block_factors"`
	BlockWidthHours float64   `yaml:"block_width_hours"`
}

// DefaultArrivalProfile returns a weekly profile with busier weekends and
// afternoons: six 4-hour blocks, mean interval 30 minutes.
func DefaultArrivalProfile() ArrivalProfile {
	return ArrivalProfile{
		BaseInterval:    30,
		DayFactors:      [7]float64{0.8, 0.8, 0.9, 0.9, 1.0, 1.5, 1.2},
		BlockFactors:    []float64{0.5, 0.3, 0.7, 1.3, 1.5, 1.0},
		BlockWidthHours: 4,
	}
}

// Validate rejects profiles that would yield a non-positive or undefined mean.
func (p ArrivalProfile) Validate() error {
	if !positiveFinite(p.BaseInterval) {
		return fmt.Errorf("%w: base_interval %v must be > 0", sim.ErrInvalidConfig, p.BaseInterval)
	}
	for i, f := range p.DayFactors {
		if !positiveFinite(f) {
			return fmt.Errorf("%w: day_factors[%d] = %v must be > 0", sim.ErrInvalidConfig, i, f)
		}
	}
	if len(p.BlockFactors) == 0 {
		return fmt.Errorf("%w: block_factors must not be empty", sim.ErrInvalidConfig)
	}
	for i, f := range p.BlockFactors {
		if !positiveFinite(f) {
			return fmt.Errorf("%w: block_factors[%d] = %v must be > 0", sim.ErrInvalidConfig, i, f)
		}
	}
	if !positiveFinite(p.BlockWidthHours) {
		return fmt.Errorf("%w: block_width_hours %v must be > 0", sim.ErrInvalidConfig, p.BlockWidthHours)
	}
	if covered := float64(len(p.BlockFactors)) * p.BlockWidthHours; covered < 24 {
		return fmt.Errorf("%w: %d blocks of %vh cover %vh, want >= 24h",
			sim.ErrInvalidConfig, len(p.BlockFactors), p.BlockWidthHours, covered)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
