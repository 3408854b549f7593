package emergency

import (
	"fmt"
	"math"

	"github.com/inference-sim/ersim/sim"
	"github.com/inference-sim/ersim/sim/workload"
)

// Pool names, in the order the monitor samples them.
const (
	PoolTriageNurses = "triage_nurses"
	PoolDoctors      = "doctors"
	PoolNurses       = "nurses"
	PoolXRay         = "xray"
	PoolLab          = "lab"
)

// PoolOrder is the fixed sampling order of the resource monitor.
var PoolOrder = []string{PoolTriageNurses, PoolDoctors, PoolNurses, PoolXRay, PoolLab}

// Severity scaling modes for stage service times.
const (
	ScalingNone         = "none"         // multiplier 1
	ScalingAcuity       = "acuity"       // 1 + (6 - severity) / 10: urgent patients take longer
	ScalingProportional = "proportional" // severity / 3
)

// Config is the complete, validated input of one emergency-room run.
// Durations are in minutes except HorizonHours.
type Config struct {
	Seed            int64                           `yaml:"seed"`
	HorizonHours    float64                         `yaml:"horizon_hours"`    // simulated hours to run
	MonitorInterval float64                         `yaml:"monitor_interval"` // minutes between utilization samples
	Resources       ResourceConfig                  `yaml:"resources"`
	Arrivals        workload.ArrivalProfile         `yaml:"arrivals"`
	SeverityWeights [workload.NumSeverities]float64 `yaml:"severity_weights"` // normalized internally
	Stages          StagesConfig                    `yaml:"stages"`
	Diagnostics     DiagnosticsConfig               `yaml:"diagnostics"`
	BusyPeriod      BusyPeriodConfig                `yaml:"busy_period"`
}

// ResourceConfig holds the fixed capacity of each pool.
type ResourceConfig struct {
	TriageNurses int `yaml:"triage_nurses"`
	Doctors      int `yaml:"doctors"`
	Nurses       int `yaml:"nurses"`
	XRay         int `yaml:"xray"`
	Labs         int `yaml:"labs"`
}

// Capacity returns the configured capacity of the named pool.
func (r ResourceConfig) Capacity(pool string) int {
	switch pool {
	case PoolTriageNurses:
		return r.TriageNurses
	case PoolDoctors:
		return r.Doctors
	case PoolNurses:
		return r.Nurses
	case PoolXRay:
		return r.XRay
	case PoolLab:
		return r.Labs
	default:
		return 0
	}
}

// StageConfig is the service-time model of one stage.
type StageConfig struct {
	Service         workload.DistSpec `yaml:"service"`
	SeverityScaling string            `yaml:"severity_scaling"` // none (default), acuity, proportional
}

// StagesConfig holds one StageConfig per pipeline stage.
type StagesConfig struct {
	Registration StageConfig `yaml:"registration"` // timed delay, no resource
	Triage       StageConfig `yaml:"triage"`
	Consult      StageConfig `yaml:"consult"`
	Imaging      StageConfig `yaml:"imaging"`
	Lab          StageConfig `yaml:"lab"`
	FollowUp     StageConfig `yaml:"follow_up"`
	Treatment    StageConfig `yaml:"treatment"`
}

// ForStage returns the configuration of stage.
func (s StagesConfig) ForStage(stage Stage) StageConfig {
	switch stage {
	case StageRegistration:
		return s.Registration
	case StageTriage:
		return s.Triage
	case StageConsult:
		return s.Consult
	case StageImaging:
		return s.Imaging
	case StageLab:
		return s.Lab
	case StageFollowUp:
		return s.FollowUp
	default:
		return s.Treatment
	}
}

// DiagnosticsConfig holds per-severity gate probabilities, index 0 being severity 1.
type DiagnosticsConfig struct {
	ImagingProbability [workload.NumSeverities]float64 `yaml:"imaging_probability"`
	LabProbability     [workload.NumSeverities]float64 `yaml:"lab_probability"`
}

// BusyPeriodConfig slows every stage down on the listed days of week.
type BusyPeriodConfig struct {
	Days   []int   `yaml:"days"`   // day-of-week indices 0-6
	Factor float64 `yaml:"factor"` // duration multiplier on those days (1 = no effect)
}

// FactorFor returns the duration multiplier for an arrival on day.
func (b BusyPeriodConfig) FactorFor(day int) float64 {
	for _, d := range b.Days {
		if d == day {
			return b.Factor
		}
	}
	return 1
}

func uniform(lo, hi float64) workload.DistSpec {
	return workload.DistSpec{Type: "uniform", Params: map[string]float64{"min": lo, "max": hi}}
}

// DefaultConfig returns a one-week scenario: 2 triage nurses, 3 doctors,
// 5 nurses, 2 x-ray rooms and 2 labs, with weekends 20% slower.
func DefaultConfig() Config {
	return Config{
		Seed:            42,
		HorizonHours:    168,
		MonitorInterval: 60,
		Resources: ResourceConfig{
			TriageNurses: 2,
			Doctors:      3,
			Nurses:       5,
			XRay:         2,
			Labs:         2,
		},
		Arrivals:        workload.DefaultArrivalProfile(),
		SeverityWeights: [workload.NumSeverities]float64{0.1, 0.25, 0.35, 0.2, 0.1},
		Stages: StagesConfig{
			Registration: StageConfig{
				Service:         workload.DistSpec{Type: "exponential", Params: map[string]float64{"mean": 5}},
				SeverityScaling: ScalingProportional,
			},
			Triage:    StageConfig{Service: uniform(5, 15), SeverityScaling: ScalingNone},
			Consult:   StageConfig{Service: uniform(10, 30), SeverityScaling: ScalingAcuity},
			Imaging:   StageConfig{Service: uniform(15, 45), SeverityScaling: ScalingNone},
			Lab:       StageConfig{Service: uniform(20, 60), SeverityScaling: ScalingNone},
			FollowUp:  StageConfig{Service: uniform(5, 15), SeverityScaling: ScalingNone},
			Treatment: StageConfig{Service: uniform(10, 40), SeverityScaling: ScalingAcuity},
		},
		Diagnostics: DiagnosticsConfig{
			ImagingProbability: [workload.NumSeverities]float64{0.8, 0.7, 0.5, 0.3, 0.2},
			LabProbability:     [workload.NumSeverities]float64{0.9, 0.8, 0.6, 0.4, 0.3},
		},
		BusyPeriod: BusyPeriodConfig{Days: []int{5, 6}, Factor: 1.2},
	}
}

// HorizonMinutes returns the horizon on the scheduler's minute clock.
func (c Config) HorizonMinutes() float64 {
	return c.HorizonHours * 60
}

// Validate reports the first invalid field, wrapped in sim.ErrInvalidConfig.
func (c Config) Validate() error {
	if math.IsNaN(c.HorizonHours) || math.IsInf(c.HorizonHours, 0) || c.HorizonHours < 0 {
		return fmt.Errorf("%w: horizon_hours %v must be finite and >= 0", sim.ErrInvalidConfig, c.HorizonHours)
	}
	if !(c.MonitorInterval > 0) || math.IsInf(c.MonitorInterval, 0) {
		return fmt.Errorf("%w: monitor_interval %v must be > 0", sim.ErrInvalidConfig, c.MonitorInterval)
	}
	for _, pool := range PoolOrder {
		if n := c.Resources.Capacity(pool); n < 1 {
			return fmt.Errorf("%w: resources.%s = %d must be >= 1", sim.ErrInvalidConfig, pool, n)
		}
	}
	if err := c.Arrivals.Validate(); err != nil {
		return fmt.Errorf("arrivals: %w", err)
	}
	if _, err := workload.NewSeveritySampler(c.SeverityWeights); err != nil {
		return err
	}
	for _, stage := range AllStages {
		sc := c.Stages.ForStage(stage)
		if err := sc.Service.Validate(); err != nil {
			return fmt.Errorf("stages.%s: %w", stage, err)
		}
		if _, err := scalingFunc(sc.SeverityScaling); err != nil {
			return fmt.Errorf("stages.%s: %w", stage, err)
		}
	}
	for i := 0; i < workload.NumSeverities; i++ {
		if p := c.Diagnostics.ImagingProbability[i]; !(p >= 0 && p <= 1) {
			return fmt.Errorf("%w: imaging_probability[%d] = %v outside [0, 1]", sim.ErrInvalidConfig, i, p)
		}
		if p := c.Diagnostics.LabProbability[i]; !(p >= 0 && p <= 1) {
			return fmt.Errorf("%w: lab_probability[%d] = %v outside [0, 1]", sim.ErrInvalidConfig, i, p)
		}
	}
	if !(c.BusyPeriod.Factor > 0) || math.IsInf(c.BusyPeriod.Factor, 0) {
		return fmt.Errorf("%w: busy_period.factor %v must be > 0", sim.ErrInvalidConfig, c.BusyPeriod.Factor)
	}
	for _, d := range c.BusyPeriod.Days {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: busy_period.days entry %d outside 0-6", sim.ErrInvalidConfig, d)
		}
	}
	return nil
}

// scalingFunc maps a severity scaling mode to its multiplier. The empty
// string means none.
func scalingFunc(mode string) (func(severity int) float64, error) {
	switch mode {
	case "", ScalingNone:
		return func(int) float64 { return 1 }, nil
	case ScalingAcuity:
		return func(s int) float64 { return 1 + float64(6-s)/10 }, nil
	case ScalingProportional:
		return func(s int) float64 { return float64(s) / 3 }, nil
	default:
		return nil, fmt.Errorf("%w: unknown severity_scaling %q", sim.ErrInvalidConfig, mode)
	}
}

// nonIncreasing reports whether probabilities never rise as severity becomes less urgent.
func nonIncreasing(p [workload.NumSeverities]float64) bool {
	for i := 1; i < len(p); i++ {
		if p[i] > p[i-1] {
			return false
		}
	}
	return true
}
