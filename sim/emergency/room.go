package emergency

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/ersim/sim"
	"github.com/inference-sim/ersim/sim/stats"
	"github.com/inference-sim/ersim/sim/workload"
)

// EmergencyRoom is the explicit simulation context of one run. It owns its
// scheduler, random streams, pools and collector; nothing is shared between
// rooms, so independent rooms may run on separate goroutines.
type EmergencyRoom struct {
	cfg       Config
	sched     *sim.Scheduler
	rng       *sim.PartitionedRNG
	pools     map[string]*sim.PriorityResource
	ordered   []*sim.PriorityResource
	samplers  map[Stage]workload.DurationSampler
	scaling   map[Stage]func(severity int) float64
	severity  *workload.SeveritySampler
	arrivals  *workload.ArrivalGenerator
	monitor   *Monitor
	collector *stats.Collector

	nextID   int
	inSystem int
	ran      bool
}

// Result is what a run produces once the horizon is reached.
type Result struct {
	Seed        int64                     `json:"seed"`
	Horizon     float64                   `json:"horizon_minutes"`
	Arrivals    int                       `json:"arrivals"`
	InSystem    int                       `json:"in_system"`
	Completions []stats.CompletionRecord  `json:"completions"`
	Utilization []stats.UtilizationSample `json:"utilization"`
	Aborts      []stats.AbortRecord       `json:"aborts"`
	Summary     *stats.Summary            `json:"summary"`
}

// NewEmergencyRoom validates cfg and wires a ready-to-run room.
func NewEmergencyRoom(cfg Config) (*EmergencyRoom, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !nonIncreasing(cfg.Diagnostics.ImagingProbability) {
		logrus.Warnf("imaging_probability %v rises with severity; urgent patients are usually imaged more often", cfg.Diagnostics.ImagingProbability)
	}
	if !nonIncreasing(cfg.Diagnostics.LabProbability) {
		logrus.Warnf("lab_probability %v rises with severity; urgent patients usually need labs more often", cfg.Diagnostics.LabProbability)
	}

	r := &EmergencyRoom{
		cfg:       cfg,
		sched:     sim.NewScheduler(),
		rng:       sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed)),
		pools:     make(map[string]*sim.PriorityResource, len(PoolOrder)),
		samplers:  make(map[Stage]workload.DurationSampler, len(AllStages)),
		scaling:   make(map[Stage]func(int) float64, len(AllStages)),
		collector: stats.NewCollector(),
	}

	for _, name := range PoolOrder {
		pool, err := sim.NewPriorityResource(r.sched, name, cfg.Resources.Capacity(name), workload.SeverityRange)
		if err != nil {
			return nil, err
		}
		r.pools[name] = pool
		r.ordered = append(r.ordered, pool)
	}

	for _, stage := range AllStages {
		sc := cfg.Stages.ForStage(stage)
		sampler, err := workload.NewDurationSampler(sc.Service)
		if err != nil {
			return nil, fmt.Errorf("stages.%s: %w", stage, err)
		}
		scale, err := scalingFunc(sc.SeverityScaling)
		if err != nil {
			return nil, fmt.Errorf("stages.%s: %w", stage, err)
		}
		r.samplers[stage] = sampler
		r.scaling[stage] = scale
	}

	var err error
	if r.severity, err = workload.NewSeveritySampler(cfg.SeverityWeights); err != nil {
		return nil, err
	}
	r.arrivals, err = workload.NewArrivalGenerator(r.sched, cfg.Arrivals,
		r.rng.ForSubsystem(sim.SubsystemArrivals), r.admit)
	if err != nil {
		return nil, err
	}
	if r.monitor, err = NewMonitor(r.sched, r.ordered, r.collector, cfg.MonitorInterval); err != nil {
		return nil, err
	}
	return r, nil
}

// admit is the arrival callback: it draws a severity and starts a patient.
func (r *EmergencyRoom) admit(_ float64, day int) {
	r.nextID++
	severity := r.severity.Sample(r.rng.ForSubsystem(sim.SubsystemSeverity))
	p, err := NewPatient(r, r.nextID, severity, day)
	if err != nil {
		logrus.Errorf("[t=%10.3f] rejecting arrival %d: %v", r.sched.Now(), r.nextID, err)
		return
	}
	r.inSystem++
	if err := p.Start(); err != nil {
		p.abort(err)
	}
}

// serviceTime draws a stage duration scaled by severity and the busy-period factor.
func (r *EmergencyRoom) serviceTime(stage Stage, severity int, busy float64) float64 {
	base := r.samplers[stage].Sample(r.rng.ForSubsystem(sim.SubsystemService))
	return base * r.scaling[stage](severity) * busy
}

// Run starts the arrival and monitor processes and executes events up to the
// configured horizon. A room runs once.
func (r *EmergencyRoom) Run() (*Result, error) {
	if r.ran {
		return nil, errors.New("emergency room already ran")
	}
	r.ran = true

	if err := r.monitor.Start(); err != nil {
		return nil, err
	}
	if err := r.arrivals.Start(); err != nil {
		return nil, err
	}
	horizon := r.cfg.HorizonMinutes()
	logrus.Infof("Starting emergency-room run: seed %d, horizon %.0f min", r.cfg.Seed, horizon)
	if err := r.sched.RunUntil(horizon); err != nil {
		return nil, err
	}
	logrus.Infof("Run finished at t=%.1f: %d arrivals, %d discharged, %d aborted, %d still in system",
		r.sched.Now(), r.arrivals.Arrivals(), r.collector.Len(), len(r.collector.Aborts()), r.inSystem)

	return &Result{
		Seed:        r.cfg.Seed,
		Horizon:     horizon,
		Arrivals:    r.arrivals.Arrivals(),
		InSystem:    r.inSystem,
		Completions: r.collector.Completions(),
		Utilization: r.collector.Utilization(),
		Aborts:      r.collector.Aborts(),
		Summary:     stats.Summarize(r.collector),
	}, nil
}

// Pool returns the named pool, or nil.
func (r *EmergencyRoom) Pool(name string) *sim.PriorityResource {
	return r.pools[name]
}

// InSystem returns the number of admitted patients not yet discharged or aborted.
func (r *EmergencyRoom) InSystem() int {
	return r.inSystem
}

// Now returns the room's simulated time in minutes.
func (r *EmergencyRoom) Now() float64 {
	return r.sched.Now()
}

// Config returns the configuration the room was built with.
func (r *EmergencyRoom) Config() Config {
	return r.cfg
}
