package testutil

import "testing"

func TestAssertSameJSON_MapsEncodeInKeyOrder(t *testing.T) {
	a := map[string]float64{"triage": 1, "consult": 2}
	b := map[string]float64{"consult": 2, "triage": 1}
	AssertSameJSON(t, "waits", a, b)
}

func TestAssertFloat64Equal_WithinTolerance(t *testing.T) {
	AssertFloat64Equal(t, "mean", 100, 100.5, 0.01)
	AssertFloat64Equal(t, "zero", 0, 0, 0)
}
