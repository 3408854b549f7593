package workload

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/ersim/sim"
)

func TestSeveritySampler_FrequenciesFollowNormalizedWeights(t *testing.T) {
	// GIVEN weights that do not sum to 1
	s, err := NewSeveritySampler([NumSeverities]float64{1, 2.5, 3.5, 2, 1})
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(42))

	// WHEN 50000 levels are drawn
	n := 50000
	counts := make(map[int]int)
	for i := 0; i < n; i++ {
		counts[s.Sample(rng)]++
	}

	// THEN each level's frequency is within 1 point of its normalized weight
	for level, want := range map[int]float64{1: 0.1, 2: 0.25, 3: 0.35, 4: 0.2, 5: 0.1} {
		got := float64(counts[level]) / float64(n)
		if math.Abs(got-want) > 0.01 {
			t.Errorf("severity %d frequency = %.3f, want ≈ %.2f", level, got, want)
		}
		assert.InDelta(t, want, s.Weight(level), 1e-12)
	}
}

func TestSeveritySampler_ZeroWeightLevelNeverDrawn(t *testing.T) {
	s, err := NewSeveritySampler([NumSeverities]float64{0, 1, 0, 1, 0})
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 5000; i++ {
		level := s.Sample(rng)
		require.Contains(t, []int{2, 4}, level)
	}
	assert.Equal(t, 0.0, s.Weight(1))
	assert.Equal(t, 0.0, s.Weight(0), "out of range")
	assert.Equal(t, 0.0, s.Weight(6), "out of range")
}

func TestSeveritySampler_SingleLevel(t *testing.T) {
	s, err := NewSeveritySampler([NumSeverities]float64{0, 0, 0, 0, 3})
	require.NoError(t, err)
	assert.Equal(t, 5, s.Sample(rand.New(rand.NewSource(1))))
}

func TestNewSeveritySampler_InvalidWeights(t *testing.T) {
	for name, w := range map[string][NumSeverities]float64{
		"all zero": {},
		"negative": {1, -0.1, 1, 1, 1},
		"infinite": {1, math.Inf(1), 1, 1, 1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewSeveritySampler(w)
			assert.ErrorIs(t, err, sim.ErrInvalidConfig)
		})
	}
}
