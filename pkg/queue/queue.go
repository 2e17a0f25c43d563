// Package queue provides a bounded FIFO queue shared by one producer and one consumer.
//
// A Queue is a ring buffer guarded by a single mutex. Put blocks while the queue is full
// and Get blocks while it is empty. Both waits release the lock while suspended and
// re-check their condition once woken, so no wakeup is missed.
package queue

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrClosed is returned by Put on a closed queue and by Get on a closed and drained queue.
	ErrClosed = errors.New("queue is closed")
	// ErrInvalidCapacity is returned by New when the capacity is not strictly positive.
	ErrInvalidCapacity = errors.New("capacity must be greater than 0")
)

// Queue is a bounded FIFO queue safe for concurrent use.
type Queue[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	buf      []T
	head     int
	tail     int
	count    int
	closed   bool
}

// New creates a queue holding at most capacity items.
func New[T any](capacity int) (*Queue[T], error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", capacity)
	}

	q := &Queue[T]{
		buf: make([]T, capacity),
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)

	return q, nil
}

// Put appends item at the tail of the queue, waiting for room if the queue is full.
func (q *Queue[T]) Put(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == len(q.buf) && !q.closed {
		q.notFull.Wait()
	}

	if q.closed {
		return ErrClosed
	}

	q.buf[q.tail] = item
	q.tail = (q.tail + 1) % len(q.buf)
	q.count++

	q.notEmpty.Signal()

	return nil
}

// Get removes and returns the head of the queue, waiting for an item if the queue is empty.
// Items left in a closed queue are still returned; ErrClosed is returned once it is drained.
func (q *Queue[T]) Get() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 && !q.closed {
		q.notEmpty.Wait()
	}

	var item T
	if q.count == 0 {
		return item, ErrClosed
	}

	item = q.buf[q.head]
	// release the reference, the consumer is now the only owner
	var zero T
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.count--

	q.notFull.Signal()

	return item, nil
}

// Close wakes every waiter. Subsequent Put calls fail and Get fails once the queue is empty.
// Closing is only meant to abort a pipeline; a normal end of stream travels as an item.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Len returns the number of items currently in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.count
}

// Cap returns the maximum number of items the queue can hold.
func (q *Queue[T]) Cap() int {
	return len(q.buf)
}
