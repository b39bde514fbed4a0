// Package worker provides Worker, an exclusive owner of a piece of mutable
// state that runs submitted functions against it one at a time.
//
// A Worker starts a dedicated goroutine when it is created and moves the
// initial state into it. From then on the only way to read or modify the
// state is to submit a function that receives a pointer to it. Functions run
// strictly in the order their Submit calls returned, each one observing every
// effect of the previous one. No locking is required inside a task.
//
// # Submitting work
//
// Submit returns immediately with a *future.Future for the task's result:
//
//	w, _ := worker.New(0)
//	f, _ := worker.Submit(w, func(n *int) (int, error) {
//		*n++
//		return *n, nil
//	})
//	v, err := f.Wait()
//
// Errors returned by a task are delivered through its future unchanged. A
// panicking task is recovered and its future fails with *api.PanicError; the
// worker keeps processing the next task.
//
// # Replacing the state
//
// SwapState and SetState replace the owned value. The swap is queued like any
// other task, so earlier tasks see the old value and later tasks see the new
// one. Snapshot and State return a shallow copy taken at their queue position.
//
// # Configuration
//
// Workers are configured with functional options:
//
//   - WithName sets the name used in logs and observer callbacks.
//   - WithMaxTasksPerSecond spaces task starts at least 1/rate apart.
//   - WithObserver attaches an api.Observer (metrics, journaling, logging).
//   - WithLogger sets the slog.Logger used for lifecycle and panic records.
//
// # Shutdown
//
// Close stops accepting work and returns after every task submitted before it
// has finished. Submissions after Close fail with api.ErrClosed. Stop is the
// context-bounded variant.
package worker
