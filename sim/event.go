package sim

import "github.com/sirupsen/logrus"

// Event defines the interface for all simulation events.
// Each event has a Timestamp (in simulated minutes), an EventID assigned at
// insertion for deterministic tie-breaking, and an Execute method that
// advances simulation state when invoked.
type Event interface {
	Timestamp() float64
	EventID() uint64
	Cancelled() bool
	Execute(s *Scheduler)
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	timestamp float64
	eventID   uint64
	cancelled bool
}

func (e *BaseEvent) Timestamp() float64 {
	return e.timestamp
}

func (e *BaseEvent) EventID() uint64 {
	return e.eventID
}

func (e *BaseEvent) Cancelled() bool {
	return e.cancelled
}

// Cancel marks the event so the scheduler skips it when it reaches the head
// of the queue. Cancelling an event that already fired has no effect.
func (e *BaseEvent) Cancel() {
	e.cancelled = true
}

// ResumeEvent resumes a suspended process by invoking its continuation.
// It is the handle returned by Scheduler.ScheduleAfter and Scheduler.ScheduleAt.
type ResumeEvent struct {
	BaseEvent
	fn func()
}

// Execute runs the continuation.
func (e *ResumeEvent) Execute(s *Scheduler) {
	logrus.Tracef("<< Resume: event %d at t=%.3f", e.eventID, s.Now())
	e.fn()
}
