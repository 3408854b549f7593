// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Scheduler is the core object that holds simulation time and the event loop.
//
// Execution is single-threaded and cooperative: exactly one continuation runs
// at a time, and a process "suspends" by returning after it has scheduled its
// own resumption. A Scheduler is NOT safe for concurrent use; independent
// simulations each own their Scheduler and may run on separate goroutines.
type Scheduler struct {
	clock    float64
	queue    *EventHeap
	nextID   uint64
	executed uint64
}

// NewScheduler creates a Scheduler with the clock at zero and no pending events.
func NewScheduler() *Scheduler {
	return &Scheduler{
		queue: NewEventHeap(),
	}
}

// Now returns the current simulated time in minutes.
func (s *Scheduler) Now() float64 {
	return s.clock
}

// Pending returns the number of queued events, including cancelled ones that
// have not reached the head of the queue yet.
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}

// Executed returns the number of events executed so far.
func (s *Scheduler) Executed() uint64 {
	return s.executed
}

func (s *Scheduler) newBaseEvent(timestamp float64) BaseEvent {
	s.nextID++
	return BaseEvent{timestamp: timestamp, eventID: s.nextID}
}

// ScheduleAfter arranges for fn to run delay minutes from now. Events due at the
// same instant run in the order they were scheduled.
// A negative or non-finite delay is rejected with ErrNegativeDelay.
func (s *Scheduler) ScheduleAfter(delay float64, fn func()) (*ResumeEvent, error) {
	if math.IsNaN(delay) || math.IsInf(delay, 0) || delay < 0 {
		return nil, fmt.Errorf("%w: delay %v at t=%.3f", ErrNegativeDelay, delay, s.clock)
	}
	return s.ScheduleAt(s.clock+delay, fn)
}

// ScheduleAt arranges for fn to run at absolute simulated time t (t >= Now()).
func (s *Scheduler) ScheduleAt(t float64, fn func()) (*ResumeEvent, error) {
	if fn == nil {
		panic("ScheduleAt: fn must not be nil")
	}
	if math.IsNaN(t) || math.IsInf(t, 0) || t < s.clock {
		return nil, fmt.Errorf("%w: time %v is before now (t=%.3f)", ErrNegativeDelay, t, s.clock)
	}
	ev := &ResumeEvent{BaseEvent: s.newBaseEvent(t), fn: fn}
	s.queue.Schedule(ev)
	return ev, nil
}

// RunUntil executes events in (timestamp, insertion) order until the queue is
// empty or the next event lies beyond horizon. Events due exactly at the
// horizon are executed. For a finite horizon the clock is left at the horizon
// once the run stops, so observers read the time the run covered.
func (s *Scheduler) RunUntil(horizon float64) error {
	if math.IsNaN(horizon) || horizon < 0 {
		return fmt.Errorf("%w: horizon %v must be >= 0", ErrInvalidConfig, horizon)
	}
	for s.queue.Len() > 0 {
		if s.queue.Peek().Timestamp() > horizon {
			break
		}
		ev := s.queue.PopNext()
		if ev.Cancelled() {
			continue
		}
		if ev.Timestamp() < s.clock {
			panic(fmt.Sprintf("Clock went backwards: %v < %v", ev.Timestamp(), s.clock))
		}
		s.clock = ev.Timestamp()
		logrus.Tracef("[t=%10.3f] Executing %T #%d", s.clock, ev, ev.EventID())
		ev.Execute(s)
		s.executed++
	}
	if !math.IsInf(horizon, 1) && horizon > s.clock {
		s.clock = horizon
	}
	logrus.Debugf("[t=%10.3f] Run stopped; %d events executed, %d pending", s.clock, s.executed, s.queue.Len())
	return nil
}

// Run drains the event queue with no horizon.
func (s *Scheduler) Run() error {
	return s.RunUntil(math.Inf(1))
}
