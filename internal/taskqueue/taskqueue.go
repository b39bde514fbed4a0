package taskqueue

import (
	"context"
)

// Queue is an unbounded FIFO hand-off between producers and consumers.
//
// Items are removed in exactly the order Push calls completed. Push never
// fails and never blocks beyond the queue's internal critical section.
type Queue[T any] interface {
	// Push appends item to the tail and wakes one waiting consumer, if any.
	Push(item T)

	// Pop removes and returns the head item, blocking until one is available.
	Pop() T

	// PopContext is like Pop but gives up when ctx is done.
	PopContext(ctx context.Context) (T, error)

	// TryPop removes the head item without blocking. ok is false when the
	// queue is empty.
	TryPop() (item T, ok bool)

	// Len returns the number of queued items.
	Len() int
}
