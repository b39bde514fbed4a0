// Package exclusive provides workers that own a piece of mutable state and
// serialize all access to it.
//
// A worker is a single goroutine holding a value. Instead of sharing the
// value behind a mutex, callers submit functions that receive a pointer to
// it. The worker runs the functions one at a time in submission order and
// hands each result back through a future. The state is never touched by two
// goroutines at once, and each task sees every effect of the tasks before it.
//
// # Core Concepts
//
//  1. Worker
//  2. Future
//  3. Observer
//  4. Journal
//
// # Worker
//
// New moves an initial value into a fresh worker goroutine:
//
//	w, err := exclusive.New(map[string]int{}, exclusive.WithName("inventory"))
//	defer w.Close()
//
// Submit enqueues a function and returns immediately:
//
//	f, err := exclusive.Submit(w, func(stock *map[string]int) (int, error) {
//		(*stock)["apple"]++
//		return (*stock)["apple"], nil
//	})
//
// When several resources must change together, bundle them into one struct
// and give the struct to a single worker.
//
// Workers can cap how often they start tasks with WithMaxTasksPerSecond.
// Consecutive task starts are then at least 1/rate apart; the worker sleeps
// after a task that finished early.
//
// SwapState and SetState replace the owned value through the queue, so the
// swap happens between tasks like any other piece of work.
//
// # Future
//
// A Future resolves exactly once with the task's value or error. Wait blocks;
// WaitContext gives up when a context is done; Ready and Done allow polling
// and select. A panic inside a task becomes a *PanicError carrying the panic
// value and stack, and the worker moves on to the next task.
//
// # Observer
//
// Observers receive worker and task lifecycle callbacks on the worker
// goroutine. The package ships a LoggingObserver (log/slog), BasicMetrics
// (atomic counters) and NewCompositeObserver to combine them.
//
// # Journal
//
// A Journal is an append-only record of what a worker did: when it started
// and stopped, which tasks completed or failed, and when it throttled.
// NewJournalObserver turns a Journal into an Observer. Journals are available
// in memory, in SQLite, and through the redis, postgres and mongo submodules.
// NewSQLiteBundle wires a worker, a SQLite journal and metrics together.
//
// # Shutdown
//
// Close stops accepting work, runs everything already submitted, and waits
// for the worker goroutine to exit. Later submissions fail with ErrClosed.
//
// For examples, see the /examples directory.
package exclusive
