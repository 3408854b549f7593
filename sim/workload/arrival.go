package workload

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/ersim/sim"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
	daysPerWeek    = 7
)

// SpawnFunc receives each arrival: the current time and the day of week the
// arrival was drawn under.
type SpawnFunc func(now float64, day int)

// ArrivalGenerator is a perpetual process producing one arrival per
// exponentially-distributed delay. The delay's mean is
// BaseInterval / (dayFactor × blockFactor), evaluated at the time the delay is
// drawn. The Scheduler's horizon bounds the loop.
type ArrivalGenerator struct {
	sched    *sim.Scheduler
	profile  ArrivalProfile
	rng      *rand.Rand
	spawn    SpawnFunc
	arrivals int
	started  bool
}

// NewArrivalGenerator validates profile and binds the generator to s.
func NewArrivalGenerator(s *sim.Scheduler, profile ArrivalProfile, rng *rand.Rand, spawn SpawnFunc) (*ArrivalGenerator, error) {
	if s == nil || rng == nil || spawn == nil {
		return nil, fmt.Errorf("%w: arrival generator needs a scheduler, an RNG and a spawn callback", sim.ErrInvalidConfig)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &ArrivalGenerator{
		sched:   s,
		profile: profile,
		rng:     rng,
		spawn:   spawn,
	}, nil
}

// Start schedules the first arrival. It may be called once.
func (g *ArrivalGenerator) Start() error {
	if g.started {
		return errors.New("arrival generator already started")
	}
	g.started = true
	return g.scheduleNext()
}

func (g *ArrivalGenerator) scheduleNext() error {
	now := g.sched.Now()
	day := DayOfWeek(now)
	mean := g.NextInterval(now)
	delay := g.rng.ExpFloat64() * mean
	_, err := g.sched.ScheduleAfter(delay, func() {
		g.arrivals++
		logrus.Debugf("[t=%10.3f] arrival #%d (day %d, mean interval %.2f)", g.sched.Now(), g.arrivals, day, mean)
		g.spawn(g.sched.Now(), day)
		if err := g.scheduleNext(); err != nil {
			logrus.Errorf("[t=%10.3f] arrival loop stopped: %v", g.sched.Now(), err)
		}
	})
	return err
}

// NextInterval returns the mean inter-arrival time at now.
func (g *ArrivalGenerator) NextInterval(now float64) float64 {
	day := g.profile.DayFactors[DayOfWeek(now)]
	block := g.profile.BlockFactors[g.BlockOf(now)]
	return g.profile.BaseInterval / (day * block)
}

// BlockOf returns the time-of-day block index containing now.
func (g *ArrivalGenerator) BlockOf(now float64) int {
	minuteOfDay := math.Mod(now, minutesPerDay)
	idx := int(math.Floor(minuteOfDay / (g.profile.BlockWidthHours * minutesPerHour)))
	if idx >= len(g.profile.BlockFactors) {
		idx = len(g.profile.BlockFactors) - 1
	}
	return idx
}

// Arrivals returns the number of arrivals spawned so far.
func (g *ArrivalGenerator) Arrivals() int {
	return g.arrivals
}

// DayOfWeek returns floor(now / 1 day) mod 7, with now in minutes.
func DayOfWeek(now float64) int {
	return int(math.Floor(now/minutesPerDay)) % daysPerWeek
}
