// Implements the WaitQueue, which holds requests waiting for a resource unit.
// Requests are enqueued when the pool is at capacity.

package sim

import (
	"container/heap"
	"fmt"
	"strings"
)

// WaitQueue orders waiting requests by priority (ascending, more urgent first)
// and then by arrival sequence, so equal-priority requests are served FIFO.
type WaitQueue struct {
	queue requestHeap
}

// NewWaitQueue creates an empty WaitQueue.
func NewWaitQueue() *WaitQueue {
	wq := &WaitQueue{queue: make(requestHeap, 0)}
	heap.Init(&wq.queue)
	return wq
}

// Enqueue adds a request to the wait queue.
func (wq *WaitQueue) Enqueue(r *Request) {
	if r == nil {
		panic("Enqueue: req must not be nil")
	}
	heap.Push(&wq.queue, r)
}

// Len returns the number of requests in the queue.
func (wq *WaitQueue) Len() int {
	return wq.queue.Len()
}

// Peek returns the request that would be served next without removing it.
// Returns nil if the queue is empty.
func (wq *WaitQueue) Peek() *Request {
	if wq.queue.Len() == 0 {
		return nil
	}
	return wq.queue[0]
}

// Dequeue removes and returns the request that is served next.
func (wq *WaitQueue) Dequeue() *Request {
	if wq.queue.Len() == 0 {
		return nil
	}
	return heap.Pop(&wq.queue).(*Request)
}

// Remove withdraws r from anywhere in the queue. It reports false if r is not queued.
func (wq *WaitQueue) Remove(r *Request) bool {
	if r == nil || r.index < 0 || r.index >= wq.queue.Len() || wq.queue[r.index] != r {
		return false
	}
	heap.Remove(&wq.queue, r.index)
	return true
}

func (wq *WaitQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, val := range wq.queue {
		sb.WriteString(fmt.Sprintf("p%d#%d", val.priority, val.seq))
		if i < len(wq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

type requestHeap []*Request

func (h requestHeap) Len() int { return len(h) }

func (h requestHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h requestHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *requestHeap) Push(x any) {
	r := x.(*Request)
	r.index = len(*h)
	*h = append(*h, r)
}

func (h *requestHeap) Pop() any {
	old := *h
	n := len(old)
	r := old[n-1]
	old[n-1] = nil
	r.index = -1
	*h = old[0 : n-1]
	return r
}
