package sim

import "errors"

// Configuration errors are fatal and are raised before the simulation starts.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrNegativeDelay is returned when an event would be scheduled in the past.
// Delays are never clamped to zero; a negative delay is a programming error.
var ErrNegativeDelay = errors.New("negative scheduling delay")

// Resource protocol errors. They are fatal for the offending process only and
// leave the pool's holders and wait queue untouched.
var (
	ErrNotHeld            = errors.New("grant is not held")
	ErrPriorityOutOfRange = errors.New("priority out of range")
	ErrNotWaiting         = errors.New("request is not waiting")
)
