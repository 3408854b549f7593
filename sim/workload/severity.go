package workload

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/inference-sim/ersim/sim"
)

// Severity levels run from MostUrgent to LeastUrgent.
const (
	MostUrgent    = 1
	LeastUrgent   = 5
	NumSeverities = LeastUrgent - MostUrgent + 1
)

// SeverityRange is the priority range pools use for patients.
var SeverityRange = sim.PriorityRange{Min: MostUrgent, Max: LeastUrgent}

// SeveritySampler draws severity levels from a discrete weighted distribution
// using inverse CDF via binary search.
type SeveritySampler struct {
	weights [NumSeverities]float64
	cdf     []float64
	levels  []int
}

// NewSeveritySampler creates a sampler from one weight per severity level.
// Weights need not sum to 1; they are normalized. Zero-weight levels are never drawn.
func NewSeveritySampler(weights [NumSeverities]float64) (*SeveritySampler, error) {
	total := 0.0
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: severity weight[%d] = %v must be finite and >= 0",
				sim.ErrInvalidConfig, i, w)
		}
		total += w
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: severity weights are all zero", sim.ErrInvalidConfig)
	}

	s := &SeveritySampler{weights: weights}
	cumulative := 0.0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		cumulative += w / total
		s.levels = append(s.levels, MostUrgent+i)
		s.cdf = append(s.cdf, cumulative)
	}
	s.cdf[len(s.cdf)-1] = 1.0
	return s, nil
}

// Sample draws one severity level.
func (s *SeveritySampler) Sample(rng *rand.Rand) int {
	if len(s.levels) == 1 {
		return s.levels[0]
	}
	u := rng.Float64()
	idx := sort.SearchFloat64s(s.cdf, u)
	if idx >= len(s.levels) {
		idx = len(s.levels) - 1
	}
	return s.levels[idx]
}

// Weight returns the normalized probability of severity level, or 0 for
// levels outside the valid range.
func (s *SeveritySampler) Weight(severity int) float64 {
	if !SeverityRange.Contains(severity) {
		return 0
	}
	total := 0.0
	for _, w := range s.weights {
		total += w
	}
	return s.weights[severity-MostUrgent] / total
}
