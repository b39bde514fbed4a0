package taskqueue

import (
	"context"
	"sync"
)

// BlockingQueue is an in-memory Queue backed by a slice guarded by a mutex.
// It is safe for concurrent use by any number of producers and consumers.
type BlockingQueue[T any] struct {
	mu    sync.Mutex
	items []T

	// ready carries at most one pending wake-up. Consumers always re-check
	// the slice after waking, so a lost or stale token is harmless.
	ready chan struct{}
}

// NewBlockingQueue creates an empty queue.
func NewBlockingQueue[T any]() *BlockingQueue[T] {
	return &BlockingQueue[T]{
		ready: make(chan struct{}, 1),
	}
}

// Ensure BlockingQueue implements Queue.
var _ Queue[func()] = (*BlockingQueue[func()])(nil)

func (q *BlockingQueue[T]) Push(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()

	q.signal()
}

func (q *BlockingQueue[T]) Pop() T {
	item, _ := q.PopContext(context.Background())
	return item
}

func (q *BlockingQueue[T]) PopContext(ctx context.Context) (T, error) {
	for {
		if item, ok := q.TryPop(); ok {
			return item, nil
		}

		select {
		case <-q.ready:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

func (q *BlockingQueue[T]) TryPop() (T, bool) {
	var zero T

	q.mu.Lock()
	if len(q.items) == 0 {
		q.mu.Unlock()
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	more := len(q.items) > 0
	q.mu.Unlock()

	// Another consumer may be parked while items remain; pass the wake-up on.
	if more {
		q.signal()
	}
	return item, true
}

func (q *BlockingQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *BlockingQueue[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
