package emergency

import (
	"fmt"

	"github.com/inference-sim/ersim/sim"
	"github.com/inference-sim/ersim/sim/stats"
)

// Monitor is a periodic process that samples every pool, in a fixed order,
// starting at t=0. It only reads pool state.
type Monitor struct {
	sched     *sim.Scheduler
	pools     []*sim.PriorityResource
	collector *stats.Collector
	interval  float64
	ticks     int
}

// NewMonitor creates a monitor sampling pools every interval minutes.
func NewMonitor(s *sim.Scheduler, pools []*sim.PriorityResource, collector *stats.Collector, interval float64) (*Monitor, error) {
	if !(interval > 0) {
		return nil, fmt.Errorf("%w: monitor interval %v must be > 0", sim.ErrInvalidConfig, interval)
	}
	return &Monitor{sched: s, pools: pools, collector: collector, interval: interval}, nil
}

// Start schedules the first sample at the current time.
func (m *Monitor) Start() error {
	_, err := m.sched.ScheduleAfter(0, m.tick)
	return err
}

// Ticks returns the number of sampling rounds taken.
func (m *Monitor) Ticks() int {
	return m.ticks
}

func (m *Monitor) tick() {
	m.ticks++
	now := m.sched.Now()
	for _, p := range m.pools {
		m.collector.RecordUtilization(stats.UtilizationSample{
			Pool:     p.Name(),
			Capacity: p.Capacity(),
			InUse:    p.InUse(),
			QueueLen: p.QueueLen(),
			Time:     now,
		})
	}
	// A positive, finite interval cannot be rejected.
	_, _ = m.sched.ScheduleAfter(m.interval, m.tick)
}
