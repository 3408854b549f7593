// Defines the Request and Grant types that model one requester's claim on a
// PriorityResource: a Request waits in the pool's queue, a Grant is a held unit.

package sim

import "fmt"

// RequestState represents the lifecycle state of a request.
type RequestState string

const (
	StateWaiting   RequestState = "waiting"
	StateGranted   RequestState = "granted"
	StateCancelled RequestState = "cancelled"
)

// Request is a single acquisition attempt against a PriorityResource.
// A waiting request holds no resource.
type Request struct {
	pool        *PriorityResource
	priority    int
	seq         uint64 // arrival order within the pool, for FIFO tie-break
	requestedAt float64
	onGrant     func(*Grant)
	state       RequestState
	grant       *Grant
	index       int // position in the wait queue heap, -1 when not queued
}

// Priority returns the request's priority (lower is more urgent).
func (r *Request) Priority() int { return r.priority }

// RequestedAt returns the simulated time at which the request was made.
func (r *Request) RequestedAt() float64 { return r.requestedAt }

// State returns the request's lifecycle state.
func (r *Request) State() RequestState { return r.state }

// Grant returns the grant once the request has been served, nil before.
func (r *Request) Grant() *Grant { return r.grant }

// Cancel withdraws a waiting request from the pool's queue.
// Cancelling a request that was already granted or cancelled returns ErrNotWaiting.
func (r *Request) Cancel() error {
	return r.pool.cancel(r)
}

func (r *Request) String() string {
	return fmt.Sprintf("Request{pool: %s, priority: %d, seq: %d, state: %s}", r.pool.name, r.priority, r.seq, r.state)
}

// Grant is one resource unit allocated to a request. It must be released
// exactly once through the pool that issued it.
type Grant struct {
	request   *Request
	grantedAt float64
	released  bool
}

// Pool returns the resource that issued the grant.
func (g *Grant) Pool() *PriorityResource { return g.request.pool }

// Priority returns the priority of the request that was granted.
func (g *Grant) Priority() int { return g.request.priority }

// RequestedAt returns when the originating request was made.
func (g *Grant) RequestedAt() float64 { return g.request.requestedAt }

// GrantedAt returns when the unit was allocated.
func (g *Grant) GrantedAt() float64 { return g.grantedAt }

// Wait returns the time spent queued before the grant (always >= 0).
func (g *Grant) Wait() float64 { return g.grantedAt - g.request.requestedAt }

// Released reports whether the grant has been returned to its pool.
func (g *Grant) Released() bool { return g.released }
