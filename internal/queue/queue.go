// Package queue provides BoundedQueue, a closeable FIFO used to hand work
// off between the pipeline stages in internal/pipeline: the walker pushes
// FileHandles, the scanner pool pushes MatchGroups, and close() cascades the
// shutdown from one stage to the next.
package queue

import "sync"

// BoundedQueue is a concurrent-safe FIFO supporting blocking Push/Pull and an
// idempotent Close. Values are handed off by move (the zero value is never
// reused once pulled), never copied in place.
//
// A single mutex guards the backing slice; one condition variable wakes
// waiters on every state change that could satisfy them (a push, or a
// close). Push notifies one waiter since at most one Pull can consume the
// new element; Close notifies all waiters since every one of them must now
// re-check the predicate and, finding the queue empty, return closed.
type BoundedQueue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []T
	closed bool
}

// New creates an empty, open BoundedQueue. capHint, if positive, preallocates
// the backing slice; it is not an enforced capacity limit — pushes never
// block on queue length, only on the mutex.
func New[T any](capHint int) *BoundedQueue[T] {
	q := &BoundedQueue[T]{}
	if capHint > 0 {
		q.items = make([]T, 0, capHint)
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends v to the back of the queue. ok is false if the queue was
// already closed, in which case v is dropped.
func (q *BoundedQueue[T]) Push(v T) (ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, v)
	q.cond.Signal()
	return true
}

// PushMany appends every element of vs under a single lock acquisition —
// the atomic bulk push the BoundedQueue contract calls for. ok is false if
// the queue was already closed, in which case nothing is enqueued.
func (q *BoundedQueue[T]) PushMany(vs []T) (ok bool) {
	if len(vs) == 0 {
		return true
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, vs...)
	q.cond.Broadcast()
	return true
}

// Pull removes and returns the front element. It blocks while the queue is
// empty and open. ok is true if a value was returned; closed is true if the
// queue was empty and closed, in which case the zero value of T is returned.
func (q *BoundedQueue[T]) Pull() (v T, ok bool, closed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return v, false, true
	}
	v = q.items[0]
	var zero T
	q.items[0] = zero // drop the reference before shrinking, not after
	q.items = q.items[1:]
	return v, true, false
}

// Close marks the queue closed. Further Pushes fail; pending elements remain
// drainable by Pull until the backlog is empty, after which Pulls return
// closed without blocking. Close is idempotent.
func (q *BoundedQueue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

// Len reports the number of items currently buffered. It is a snapshot, not
// a guarantee — intended for diagnostics, not control flow.
func (q *BoundedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
