package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// PriorityResource is a pool of Capacity interchangeable units with a
// priority-ordered wait queue. Granted units are never preempted: a more
// urgent arrival only affects who is served on the next release.
//
// All mutations happen inside the owning Scheduler's active continuation, so
// the pool carries no locks.
type PriorityResource struct {
	HookableBase

	name       string
	capacity   int
	priorities PriorityRange
	sched      *Scheduler
	holders    map[*Grant]struct{}
	waitQ      *WaitQueue
	nextSeq    uint64
	granted    uint64
}

// NewPriorityResource creates a pool bound to s. Capacity is fixed for the
// pool's lifetime and must be at least 1.
func NewPriorityResource(s *Scheduler, name string, capacity int, priorities PriorityRange) (*PriorityResource, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: resource %q needs a scheduler", ErrInvalidConfig, name)
	}
	if capacity < 1 {
		return nil, fmt.Errorf("%w: resource %q capacity %d must be >= 1", ErrInvalidConfig, name, capacity)
	}
	if err := priorities.Validate(); err != nil {
		return nil, fmt.Errorf("resource %q: %w", name, err)
	}
	return &PriorityResource{
		name:       name,
		capacity:   capacity,
		priorities: priorities,
		sched:      s,
		holders:    make(map[*Grant]struct{}, capacity),
		waitQ:      NewWaitQueue(),
	}, nil
}

// Name returns the pool identity.
func (r *PriorityResource) Name() string { return r.name }

// Capacity returns the fixed number of units.
func (r *PriorityResource) Capacity() int { return r.capacity }

// InUse returns the number of units currently granted.
func (r *PriorityResource) InUse() int { return len(r.holders) }

// QueueLen returns the number of requests waiting.
func (r *PriorityResource) QueueLen() int { return r.waitQ.Len() }

// TotalGranted returns the number of grants issued over the pool's lifetime.
func (r *PriorityResource) TotalGranted() uint64 { return r.granted }

// Request asks for one unit at the given priority. When a unit is free the
// grant is immediate and onGrant runs synchronously before Request returns.
// Otherwise the request waits and onGrant runs, via a scheduled event at the
// release time, once a unit is handed over.
func (r *PriorityResource) Request(priority int, onGrant func(*Grant)) (*Request, error) {
	if onGrant == nil {
		panic("Request: onGrant must not be nil")
	}
	if !r.priorities.Contains(priority) {
		return nil, fmt.Errorf("%w: resource %q got priority %d, want %s", ErrPriorityOutOfRange, r.name, priority, r.priorities)
	}
	req := &Request{
		pool:        r,
		priority:    priority,
		seq:         r.nextSeq,
		requestedAt: r.sched.Now(),
		onGrant:     onGrant,
		state:       StateWaiting,
		index:       -1,
	}
	r.nextSeq++

	if len(r.holders) < r.capacity {
		g := r.allocate(req)
		onGrant(g)
		return req, nil
	}

	r.waitQ.Enqueue(req)
	logrus.Debugf("[t=%10.3f] %s full (%d/%d); queued priority %d, queue=%d",
		r.sched.Now(), r.name, len(r.holders), r.capacity, priority, r.waitQ.Len())
	r.InvokeHook(HookCtx{Domain: r, Pos: HookPosEnqueue, Now: r.sched.Now(), Item: req})
	return req, nil
}

// Release returns g's unit to the pool. The unit is handed to the head of the
// wait queue, whose continuation is scheduled at the current time.
// Releasing a grant this pool does not currently hold returns ErrNotHeld.
func (r *PriorityResource) Release(g *Grant) error {
	if g == nil {
		return fmt.Errorf("%w: nil grant on resource %q", ErrNotHeld, r.name)
	}
	if g.request.pool != r {
		return fmt.Errorf("%w: grant belongs to %q, not %q", ErrNotHeld, g.request.pool.name, r.name)
	}
	if _, ok := r.holders[g]; !ok || g.released {
		return fmt.Errorf("%w: resource %q", ErrNotHeld, r.name)
	}
	delete(r.holders, g)
	g.released = true

	// The handoff completes before the release is observed, so hooks never
	// see a free unit while requests are waiting.
	if next := r.waitQ.Dequeue(); next != nil {
		ng := r.allocate(next)
		if _, err := r.sched.ScheduleAfter(0, func() { next.onGrant(ng) }); err != nil {
			return err
		}
	}
	r.InvokeHook(HookCtx{Domain: r, Pos: HookPosRelease, Now: r.sched.Now(), Item: g})
	return nil
}

func (r *PriorityResource) allocate(req *Request) *Grant {
	g := &Grant{request: req, grantedAt: r.sched.Now()}
	req.grant = g
	req.state = StateGranted
	r.holders[g] = struct{}{}
	r.granted++
	if len(r.holders) > r.capacity {
		panic(fmt.Sprintf("resource %q over capacity: %d > %d", r.name, len(r.holders), r.capacity))
	}
	r.InvokeHook(HookCtx{Domain: r, Pos: HookPosGrant, Now: r.sched.Now(), Item: g})
	return g
}

func (r *PriorityResource) cancel(req *Request) error {
	if req.state != StateWaiting || !r.waitQ.Remove(req) {
		return fmt.Errorf("%w: resource %q request is %s", ErrNotWaiting, r.name, req.state)
	}
	req.state = StateCancelled
	r.InvokeHook(HookCtx{Domain: r, Pos: HookPosCancel, Now: r.sched.Now(), Item: req})
	return nil
}
