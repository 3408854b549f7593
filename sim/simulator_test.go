package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_ExecutesInTimestampOrder(t *testing.T) {
	// GIVEN events scheduled out of order
	s := NewScheduler()
	var order []float64
	for _, d := range []float64{100, 50, 150} {
		d := d
		_, err := s.ScheduleAfter(d, func() { order = append(order, s.Now()) })
		require.NoError(t, err)
	}

	// WHEN the queue is drained
	require.NoError(t, s.Run())

	// THEN they ran by timestamp and the clock saw each time
	assert.Equal(t, []float64{50, 100, 150}, order)
	assert.Equal(t, uint64(3), s.Executed())
}

func TestScheduler_SimultaneousEvents_RunInInsertionOrder(t *testing.T) {
	// GIVEN five events at the same timestamp
	s := NewScheduler()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		_, err := s.ScheduleAt(10, func() { order = append(order, i) })
		require.NoError(t, err)
	}

	// WHEN run
	require.NoError(t, s.Run())

	// THEN FIFO
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestScheduler_ContinuationsCanScheduleFurtherEvents(t *testing.T) {
	// GIVEN a process that re-schedules itself every 2 minutes
	s := NewScheduler()
	var ticks []float64
	var loop func()
	loop = func() {
		ticks = append(ticks, s.Now())
		_, err := s.ScheduleAfter(2, loop)
		require.NoError(t, err)
	}
	_, err := s.ScheduleAfter(0, loop)
	require.NoError(t, err)

	// WHEN run until 7
	require.NoError(t, s.RunUntil(7))

	// THEN it ran at 0,2,4,6 and the next event (8) is still pending
	assert.Equal(t, []float64{0, 2, 4, 6}, ticks)
	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, 7.0, s.Now(), "clock is advanced to the horizon")
}

func TestScheduler_EventAtHorizon_IsExecuted(t *testing.T) {
	s := NewScheduler()
	ran := false
	_, err := s.ScheduleAt(10, func() { ran = true })
	require.NoError(t, err)

	require.NoError(t, s.RunUntil(10))

	assert.True(t, ran)
	assert.Equal(t, 0, s.Pending())
}

func TestScheduler_NegativeDelay_Rejected(t *testing.T) {
	s := NewScheduler()
	for _, d := range []float64{-1, -0.0001, math.NaN(), math.Inf(1), math.Inf(-1)} {
		ev, err := s.ScheduleAfter(d, func() {})
		assert.Nil(t, ev)
		assert.True(t, errors.Is(err, ErrNegativeDelay), "delay %v: got %v", d, err)
	}
	assert.Equal(t, 0, s.Pending(), "rejected events are not queued")
}

func TestScheduler_ScheduleAtPast_Rejected(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.RunUntil(5))

	_, err := s.ScheduleAt(4.9, func() {})
	assert.ErrorIs(t, err, ErrNegativeDelay)
}

func TestScheduler_InvalidHorizon_Rejected(t *testing.T) {
	s := NewScheduler()
	assert.ErrorIs(t, s.RunUntil(-1), ErrInvalidConfig)
	assert.ErrorIs(t, s.RunUntil(math.NaN()), ErrInvalidConfig)
}

func TestScheduler_CancelledEvent_IsSkipped(t *testing.T) {
	s := NewScheduler()
	ran := false
	ev, err := s.ScheduleAfter(3, func() { ran = true })
	require.NoError(t, err)

	ev.Cancel()
	require.NoError(t, s.Run())

	assert.False(t, ran)
	assert.Equal(t, uint64(0), s.Executed())
}

func TestScheduler_ClockNeverDecreases(t *testing.T) {
	// GIVEN a mix of nested zero and positive delays
	s := NewScheduler()
	last := 0.0
	check := func() {
		assert.GreaterOrEqual(t, s.Now(), last)
		last = s.Now()
	}
	for _, d := range []float64{3, 1, 2, 0} {
		_, err := s.ScheduleAfter(d, func() {
			check()
			_, err := s.ScheduleAfter(0, check)
			require.NoError(t, err)
			_, err = s.ScheduleAfter(0.5, check)
			require.NoError(t, err)
		})
		require.NoError(t, err)
	}

	require.NoError(t, s.Run())
	assert.Equal(t, 3.5, s.Now())
}

func TestScheduler_RunUntilEarlierHorizon_DoesNotRewindClock(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.RunUntil(10))
	require.NoError(t, s.RunUntil(5))
	assert.Equal(t, 10.0, s.Now())
}
