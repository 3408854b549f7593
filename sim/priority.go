package sim

import "fmt"

// PriorityRange bounds the priorities a resource accepts.
// Lower values are more urgent and are served first.
type PriorityRange struct {
	Min int
	Max int
}

// Contains reports whether p lies within the range (inclusive).
func (r PriorityRange) Contains(p int) bool {
	return p >= r.Min && p <= r.Max
}

// Validate rejects inverted ranges.
func (r PriorityRange) Validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("%w: priority range [%d, %d] is inverted", ErrInvalidConfig, r.Min, r.Max)
	}
	return nil
}

func (r PriorityRange) String() string {
	return fmt.Sprintf("[%d, %d]", r.Min, r.Max)
}
