package workload

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/ersim/sim"
	"github.com/inference-sim/ersim/sim/internal/testutil"
)

func sampleMean(t *testing.T, spec DistSpec, n int) (mean, lo, hi float64) {
	t.Helper()
	s, err := NewDurationSampler(spec)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(42))
	lo, hi = math.Inf(1), math.Inf(-1)
	sum := 0.0
	for i := 0; i < n; i++ {
		v := s.Sample(rng)
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return sum / float64(n), lo, hi
}

func TestUniformSampler_StaysInRange(t *testing.T) {
	mean, lo, hi := sampleMean(t, DistSpec{Type: "uniform", Params: map[string]float64{"min": 5, "max": 15}}, 10000)
	if lo < 5 || hi >= 15 {
		t.Errorf("uniform samples span [%.3f, %.3f], want within [5, 15)", lo, hi)
	}
	testutil.AssertFloat64Equal(t, "uniform mean", 10, mean, 0.02)
}

func TestExponentialSampler_MeanMatchesParam(t *testing.T) {
	mean, lo, _ := sampleMean(t, DistSpec{Type: "exponential", Params: map[string]float64{"mean": 5}}, 20000)
	if lo < 0 {
		t.Errorf("exponential sample %.3f is negative", lo)
	}
	testutil.AssertFloat64Equal(t, "exponential mean", 5, mean, 0.05)
}

func TestTriangularSampler_MeanAndBounds(t *testing.T) {
	spec := DistSpec{Type: "triangular", Params: map[string]float64{"min": 10, "mode": 15, "max": 35}}
	mean, lo, hi := sampleMean(t, spec, 20000)
	assert.GreaterOrEqual(t, lo, 10.0)
	assert.LessOrEqual(t, hi, 35.0)
	assert.InDelta(t, 20.0, mean, 0.4)

	s, err := NewDurationSampler(spec)
	require.NoError(t, err)
	assert.Equal(t, 20.0, s.Mean())
}

func TestTriangularSampler_Degenerate(t *testing.T) {
	s, err := NewDurationSampler(DistSpec{Type: "triangular", Params: map[string]float64{"min": 3, "mode": 3, "max": 3}})
	require.NoError(t, err)
	assert.Equal(t, 3.0, s.Sample(rand.New(rand.NewSource(1))))
}

func TestConstantSampler_ConsumesNoDraws(t *testing.T) {
	s, err := NewDurationSampler(DistSpec{Type: "constant", Params: map[string]float64{"value": 12}})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(9))
	ref := rand.New(rand.NewSource(9))
	assert.Equal(t, 12.0, s.Sample(rng))
	assert.Equal(t, ref.Int63(), rng.Int63(), "constant sampler must not advance the stream")
}

func TestNewDurationSampler_InvalidSpecs(t *testing.T) {
	tests := []struct {
		name string
		spec DistSpec
	}{
		{"unknown type", DistSpec{Type: "lognormal", Params: map[string]float64{"mu": 1}}},
		{"empty type", DistSpec{}},
		{"missing max", DistSpec{Type: "uniform", Params: map[string]float64{"min": 1}}},
		{"inverted uniform", DistSpec{Type: "uniform", Params: map[string]float64{"min": 10, "max": 5}}},
		{"negative min", DistSpec{Type: "uniform", Params: map[string]float64{"min": -1, "max": 5}}},
		{"negative mean", DistSpec{Type: "exponential", Params: map[string]float64{"mean": -2}}},
		{"nan constant", DistSpec{Type: "constant", Params: map[string]float64{"value": math.NaN()}}},
		{"mode outside range", DistSpec{Type: "triangular", Params: map[string]float64{"min": 1, "mode": 9, "max": 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewDurationSampler(tt.spec)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, sim.ErrInvalidConfig)
			assert.ErrorIs(t, tt.spec.Validate(), sim.ErrInvalidConfig)
		})
	}
}

func TestDurationSampler_Means(t *testing.T) {
	tests := []struct {
		spec DistSpec
		want float64
	}{
		{DistSpec{Type: "uniform", Params: map[string]float64{"min": 10, "max": 30}}, 20},
		{DistSpec{Type: "exponential", Params: map[string]float64{"mean": 7}}, 7},
		{DistSpec{Type: "constant", Params: map[string]float64{"value": 4}}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.spec.Type, func(t *testing.T) {
			s, err := NewDurationSampler(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Mean())
		})
	}
}
