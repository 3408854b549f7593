package emergency

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/ersim/sim"
	"github.com/inference-sim/ersim/sim/stats"
	"github.com/inference-sim/ersim/sim/workload"
)

// Stage names a step of the patient pipeline. Stage names are the keys of
// CompletionRecord.Waits.
type Stage string

const (
	StageRegistration Stage = "registration"
	StageTriage       Stage = "triage"
	StageConsult      Stage = "consult"
	StageImaging      Stage = "imaging"
	StageLab          Stage = "lab"
	StageFollowUp     Stage = "follow_up"
	StageTreatment    Stage = "treatment"
	StageDischarged   Stage = "discharged"
)

// AllStages lists the pipeline stages in execution order.
var AllStages = []Stage{
	StageRegistration, StageTriage, StageConsult, StageImaging, StageLab, StageFollowUp, StageTreatment,
}

// Pool returns the resource pool serving stage, or "" for registration.
func (s Stage) Pool() string {
	switch s {
	case StageTriage:
		return PoolTriageNurses
	case StageConsult, StageFollowUp:
		return PoolDoctors
	case StageImaging:
		return PoolXRay
	case StageLab:
		return PoolLab
	case StageTreatment:
		return PoolNurses
	default:
		return ""
	}
}

// Patient is one entity moving through the pipeline. Its severity is fixed at
// creation and doubles as its priority at every pool.
//
// The process is a chain of continuations: each stage requests a unit, and the
// grant callback schedules the end of service, which releases the unit and
// moves on to the next stage.
type Patient struct {
	ID       int
	Severity int
	Entry    float64 // minutes
	Day      int     // day of week the arrival was drawn under

	NeedsImaging bool
	NeedsLab     bool

	room  *EmergencyRoom
	busy  float64 // busy-period duration multiplier
	plan  []Stage
	next  int
	stage Stage
	held  *sim.Grant
	waits map[string]float64
	done  bool
}

// NewPatient creates a patient arriving now. The imaging and lab gates are
// drawn here, once, and reused for the follow-up decision. Severities outside
// 1-5 or with zero configured weight are rejected.
func NewPatient(room *EmergencyRoom, id, severity int, day int) (*Patient, error) {
	if !workload.SeverityRange.Contains(severity) {
		return nil, fmt.Errorf("%w: patient %d severity %d outside %s",
			sim.ErrInvalidConfig, id, severity, workload.SeverityRange)
	}
	if room.severity.Weight(severity) == 0 {
		return nil, fmt.Errorf("%w: patient %d severity %d has zero probability",
			sim.ErrInvalidConfig, id, severity)
	}

	diag := room.rng.ForSubsystem(sim.SubsystemDiagnostics)
	p := &Patient{
		ID:           id,
		Severity:     severity,
		Entry:        room.sched.Now(),
		Day:          day,
		NeedsImaging: diag.Float64() < room.cfg.Diagnostics.ImagingProbability[severity-1],
		NeedsLab:     diag.Float64() < room.cfg.Diagnostics.LabProbability[severity-1],
		room:         room,
		busy:         room.cfg.BusyPeriod.FactorFor(day),
		waits:        make(map[string]float64),
	}
	p.plan = []Stage{StageTriage, StageConsult}
	if p.NeedsImaging {
		p.plan = append(p.plan, StageImaging)
	}
	if p.NeedsLab {
		p.plan = append(p.plan, StageLab)
	}
	if p.NeedsImaging || p.NeedsLab {
		p.plan = append(p.plan, StageFollowUp)
	}
	p.plan = append(p.plan, StageTreatment)
	return p, nil
}

// Plan returns the resource stages the patient will visit, in order.
func (p *Patient) Plan() []Stage {
	return append([]Stage(nil), p.plan...)
}

// Stage returns the stage the patient is in.
func (p *Patient) Stage() Stage {
	return p.stage
}

// Start begins registration. The registration delay is recorded as that
// stage's wait.
func (p *Patient) Start() error {
	p.stage = StageRegistration
	delay := p.room.serviceTime(StageRegistration, p.Severity, p.busy)
	p.waits[string(StageRegistration)] = delay
	logrus.Debugf("[t=%10.3f] patient %d arrives (severity %d, day %d, imaging=%v lab=%v)",
		p.room.sched.Now(), p.ID, p.Severity, p.Day, p.NeedsImaging, p.NeedsLab)
	_, err := p.room.sched.ScheduleAfter(delay, p.advance)
	return err
}

// advance requests the next stage's pool, or discharges the patient when the
// plan is exhausted.
func (p *Patient) advance() {
	if p.next == len(p.plan) {
		p.discharge()
		return
	}
	stage := p.plan[p.next]
	p.stage = stage
	pool := p.room.pools[stage.Pool()]
	if pool == nil {
		p.abort(fmt.Errorf("%w: no pool %q for stage %s", sim.ErrInvalidConfig, stage.Pool(), stage))
		return
	}
	if _, err := pool.Request(p.Severity, func(g *sim.Grant) { p.serve(stage, g) }); err != nil {
		p.abort(err)
	}
}

// serve holds g for the stage's service time, then releases it and advances.
func (p *Patient) serve(stage Stage, g *sim.Grant) {
	p.held = g
	p.waits[string(stage)] = g.Wait()
	duration := p.room.serviceTime(stage, p.Severity, p.busy)
	logrus.Debugf("[t=%10.3f] patient %d starts %s after %.2f min wait, service %.2f min",
		p.room.sched.Now(), p.ID, stage, g.Wait(), duration)

	_, err := p.room.sched.ScheduleAfter(duration, func() {
		p.held = nil
		if err := g.Pool().Release(g); err != nil {
			p.abort(err)
			return
		}
		p.next++
		p.advance()
	})
	if err != nil {
		p.abort(err)
	}
}

func (p *Patient) discharge() {
	p.stage = StageDischarged
	p.done = true
	now := p.room.sched.Now()
	p.room.collector.RecordCompletion(stats.CompletionRecord{
		PatientID: p.ID,
		Severity:  p.Severity,
		EntryTime: p.Entry,
		ExitTime:  now,
		Waits:     p.waits,
	})
	p.room.inSystem--
	logrus.Debugf("[t=%10.3f] patient %d discharged after %.2f min", now, p.ID, now-p.Entry)
}

// abort stops this patient only: a held unit is returned to its pool and an
// AbortRecord is emitted.
func (p *Patient) abort(cause error) {
	if p.done {
		return
	}
	p.done = true
	now := p.room.sched.Now()
	if p.held != nil {
		if err := p.held.Pool().Release(p.held); err != nil {
			logrus.Errorf("[t=%10.3f] patient %d: releasing held unit: %v", now, p.ID, err)
		}
		p.held = nil
	}
	p.room.collector.RecordAbort(stats.AbortRecord{
		PatientID: p.ID,
		Severity:  p.Severity,
		Stage:     string(p.stage),
		Time:      now,
		Reason:    cause.Error(),
	})
	p.room.inSystem--
	logrus.Warnf("[t=%10.3f] patient %d aborted at %s: %v", now, p.ID, p.stage, cause)
}
