// Package sim provides the core discrete-event simulation engine for ersim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - simulator.go: the Scheduler, its virtual clock and the RunUntil event loop
//   - event.go: the Event interface and ResumeEvent, the continuation handle
//   - resource.go: PriorityResource, a capacity-bounded pool with a priority wait queue
//
// # Execution model
//
// A process is a chain of continuations. It runs until it must wait, either on
// a timed delay (Scheduler.ScheduleAfter) or on a resource unit
// (PriorityResource.Request), and returns control to the scheduler, which later
// resumes it. Only one continuation executes at any instant, and events that
// share a timestamp run in insertion order, so a fixed seed and configuration
// reproduce a run exactly.
//
// # Sub-packages
//
//   - sim/workload/: arrival generation and service-time samplers
//   - sim/stats/: passive record sink and on-demand summaries
//   - sim/emergency/: the emergency-room model wiring pools, patients and monitor
package sim
