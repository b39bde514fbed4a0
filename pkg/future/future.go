// Package future provides a one-shot, goroutine-safe result handle.
//
// A Promise is the writable side, held by whoever produces the result; a
// Future is the readable side, which any number of goroutines may wait on.
// Exactly one outcome (a value or an error) is ever recorded.
package future

import (
	"context"
	"sync"
)

// Future is the readable side of a result handle.
type Future[T any] struct {
	id   string
	done chan struct{}

	// value and err are written once, before done is closed.
	value T
	err   error
}

// Promise is the writable side of a result handle.
type Promise[T any] struct {
	once   sync.Once
	future *Future[T]
}

// NewPromise creates an unresolved promise and its future. id is an opaque
// label reported by Future.ID.
func NewPromise[T any](id string) *Promise[T] {
	return &Promise[T]{
		future: &Future[T]{
			id:   id,
			done: make(chan struct{}),
		},
	}
}

// Future returns the readable side of p.
func (p *Promise[T]) Future() *Future[T] {
	return p.future
}

// Complete records the outcome. A non-nil err wins over v. Only the first
// call has any effect; it returns false for every later call.
func (p *Promise[T]) Complete(v T, err error) bool {
	completed := false
	p.once.Do(func() {
		f := p.future
		if err != nil {
			f.err = err
		} else {
			f.value = v
		}
		close(f.done)
		completed = true
	})
	return completed
}

// Resolve records a successful value.
func (p *Promise[T]) Resolve(v T) bool {
	return p.Complete(v, nil)
}

// Reject records a failure.
func (p *Promise[T]) Reject(err error) bool {
	var zero T
	return p.Complete(zero, err)
}

// ID returns the label given to NewPromise.
func (f *Future[T]) ID() string {
	return f.id
}

// Done returns a channel that is closed once the outcome is recorded.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the outcome has been recorded, without blocking.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the outcome is recorded and returns it.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}

// WaitContext is like Wait but gives up when ctx is done. Giving up does not
// cancel the underlying work.
func (f *Future[T]) WaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Failed returns a future that is already resolved with err.
func Failed[T any](id string, err error) *Future[T] {
	p := NewPromise[T](id)
	p.Reject(err)
	return p.Future()
}

// Resolved returns a future that is already resolved with v.
func Resolved[T any](id string, v T) *Future[T] {
	p := NewPromise[T](id)
	p.Resolve(v)
	return p.Future()
}
