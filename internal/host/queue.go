// Package host provides the host-side primitives a field is mounted on: a
// frame scheduler, a resizable viewport and loops that drive them.
//
// Like a browser's event loop, none of these types are safe for concurrent
// use. Run and Drive call everything from the caller's goroutine.
package host

import "time"

type frameRequest struct {
	id uint64
	fn func(now time.Time)
}

// Queue is a requestAnimationFrame-style scheduler. Callbacks requested during
// a Flush run on the following Flush.
type Queue struct {
	next     uint64
	pending  []frameRequest
	inFlight map[uint64]bool // ids of the batch being flushed, false once cancelled
	requests int
	cancels  int
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// RequestFrame schedules fn for the next Flush and returns a non-zero handle.
func (q *Queue) RequestFrame(fn func(now time.Time)) uint64 {
	q.next++
	q.requests++
	q.pending = append(q.pending, frameRequest{id: q.next, fn: fn})
	return q.next
}

// CancelFrame drops a pending callback. Unknown or already-run handles are ignored.
func (q *Queue) CancelFrame(id uint64) {
	q.cancels++
	if _, ok := q.inFlight[id]; ok {
		q.inFlight[id] = false
		return
	}
	for i, r := range q.pending {
		if r.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// Flush runs every callback pending at call time, in request order, and
// returns how many ran. A callback cancelled by an earlier one in the same
// batch is skipped.
func (q *Queue) Flush(now time.Time) int {
	batch := q.pending
	q.pending = nil
	q.inFlight = make(map[uint64]bool, len(batch))
	for _, r := range batch {
		q.inFlight[r.id] = true
	}
	defer func() { q.inFlight = nil }()

	ran := 0
	for _, r := range batch {
		if !q.inFlight[r.id] {
			continue
		}
		delete(q.inFlight, r.id)
		r.fn(now)
		ran++
	}
	return ran
}

// Pending is the number of callbacks waiting for the next Flush.
func (q *Queue) Pending() int { return len(q.pending) }

// Requests counts RequestFrame calls.
func (q *Queue) Requests() int { return q.requests }

// Cancels counts CancelFrame calls.
func (q *Queue) Cancels() int { return q.cancels }
