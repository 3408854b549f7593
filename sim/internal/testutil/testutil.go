// Package testutil provides shared test infrastructure for the simulator's
// packages: JSON-level determinism checks and tolerant float comparisons.
package testutil

import (
	"encoding/json"
	"math"
	"testing"
)

// AssertSameJSON fails unless want and got encode to byte-identical JSON.
func AssertSameJSON(t *testing.T, name string, want, got any) {
	t.Helper()
	a, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("%s: encoding want: %v", name, err)
	}
	b, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("%s: encoding got: %v", name, err)
	}
	if string(a) != string(b) {
		t.Errorf("%s: JSON differs\nwant: %.300s\n got: %.300s", name, a, b)
	}
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
