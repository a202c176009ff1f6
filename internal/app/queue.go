package app

import (
	"sync"
	"time"
)

// dropQueue is a bounded queue that evicts its oldest element instead of
// blocking the producer. The pipeline favors frame freshness over
// completeness, so producers never wait on slow consumers.
type dropQueue[T any] struct {
	mu sync.Mutex
	ch chan T
}

func newDropQueue[T any](capacity int) *dropQueue[T] {
	return &dropQueue[T]{ch: make(chan T, capacity)}
}

// Push inserts item, evicting the oldest entry when the queue is full. The
// evicted entry is returned so the caller can release its resources.
func (q *dropQueue[T]) Push(item T) (evicted T, dropped bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	// The mutex excludes other producers, so after one eviction the send
	// must succeed; a concurrent Pop only makes room.
	for {
		select {
		case q.ch <- item:
			return evicted, dropped
		default:
		}
		select {
		case evicted = <-q.ch:
			dropped = true
		default:
		}
	}
}

// Pop waits up to timeout for an item.
func (q *dropQueue[T]) Pop(timeout time.Duration) (T, bool) {
	select {
	case item := <-q.ch:
		return item, true
	case <-time.After(timeout):
		var zero T
		return zero, false
	}
}

// TryPop returns an item only if one is immediately available.
func (q *dropQueue[T]) TryPop() (T, bool) {
	select {
	case item := <-q.ch:
		return item, true
	default:
		var zero T
		return zero, false
	}
}

// Drain empties the queue, calling release on each remaining item.
func (q *dropQueue[T]) Drain(release func(T)) {
	for {
		item, ok := q.TryPop()
		if !ok {
			return
		}
		if release != nil {
			release(item)
		}
	}
}

func (q *dropQueue[T]) Len() int { return len(q.ch) }
func (q *dropQueue[T]) Cap() int { return cap(q.ch) }
