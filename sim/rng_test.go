package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// GIVEN two RNGs built from the same key
	rng1 := NewPartitionedRNG(NewSimulationKey(42))
	rng2 := NewPartitionedRNG(NewSimulationKey(42))

	// WHEN three values are drawn from the same subsystem of each
	for i := 0; i < 3; i++ {
		v1 := rng1.ForSubsystem(SubsystemService).Float64()
		v2 := rng2.ForSubsystem(SubsystemService).Float64()

		// THEN the sequences are identical
		assert.Equal(t, v1, v2, "value %d", i)
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// GIVEN one RNG whose arrival stream has been heavily consumed
	rngA := NewPartitionedRNG(NewSimulationKey(42))
	for i := 0; i < 10; i++ {
		rngA.ForSubsystem(SubsystemArrivals).Float64()
	}

	// WHEN the severity stream is read for the first time
	got := rngA.ForSubsystem(SubsystemSeverity).Float64()

	// THEN it matches the first severity value of a fresh RNG
	fresh := NewPartitionedRNG(NewSimulationKey(42))
	want := fresh.ForSubsystem(SubsystemSeverity).Float64()
	assert.Equal(t, want, got, "drawing arrivals must not shift the severity stream")
}

func TestPartitionedRNG_ArrivalsUseMasterSeed(t *testing.T) {
	seed := int64(42)
	rng := NewPartitionedRNG(NewSimulationKey(seed))
	arrivals := rng.ForSubsystem(SubsystemArrivals)
	direct := newRandFromSeed(seed)

	for i := 0; i < 10; i++ {
		assert.Equal(t, direct.Float64(), arrivals.Float64(), "value %d", i)
	}
	assert.Equal(t, seed, rng.DeriveSeed(SubsystemArrivals))
}

func TestPartitionedRNG_DeriveSeed_MatchesForSubsystem(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(7))
	direct := newRandFromSeed(rng.DeriveSeed(SubsystemDiagnostics))
	stream := rng.ForSubsystem(SubsystemDiagnostics)

	for i := 0; i < 5; i++ {
		assert.Equal(t, direct.Float64(), stream.Float64())
	}
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))

	rng1 := rng.ForSubsystem(SubsystemService)
	rng2 := rng.ForSubsystem(SubsystemService)

	if rng1 != rng2 {
		t.Error("ForSubsystem returned different instances for same name")
	}
}

func TestPartitionedRNG_Key(t *testing.T) {
	seed := int64(12345)
	rng := NewPartitionedRNG(NewSimulationKey(seed))

	if rng.Key() != SimulationKey(seed) {
		t.Errorf("Key() = %v, want %v", rng.Key(), seed)
	}
}

func TestPartitionedRNG_NegativeSeed(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(math.MinInt64))

	val := rng.ForSubsystem(SubsystemArrivals).Float64()
	if val < 0 || val >= 1 {
		t.Errorf("Float64() returned %v, want [0, 1)", val)
	}
}

func TestPartitionedRNG_LazyInitialization(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	assert.Empty(t, rng.subsystems)

	rng.ForSubsystem(SubsystemArrivals)
	assert.Len(t, rng.subsystems, 1)
}

// === fnv1a64 Tests ===

func TestFnv1a64_Collision(t *testing.T) {
	names := []string{
		SubsystemArrivals,
		SubsystemSeverity,
		SubsystemDiagnostics,
		SubsystemService,
		"",
	}

	hashes := make(map[int64]string)
	for _, name := range names {
		h := fnv1a64(name)
		if existing, ok := hashes[h]; ok {
			t.Errorf("Hash collision: %q and %q both hash to %d", name, existing, h)
		}
		hashes[h] = name
	}
}

// === Benchmark ===

func BenchmarkPartitionedRNG_ForSubsystem_CacheHit(b *testing.B) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	rng.ForSubsystem(SubsystemService)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rng.ForSubsystem(SubsystemService)
	}
}

// === Helper ===

func newRandFromSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
