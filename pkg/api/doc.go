// Package api contains the shared vocabulary of the exclusive module: the
// errors a worker reports, the task metadata it hands to observers, the
// journal event model and the retry policy.
//
// Most users interact with the higher-level exclusive package, which
// re-exports selected types and helpers from this package. The api package
// is intended for custom observers, journal backends and contributors
// extending the worker itself.
//
// # Errors
//
// A worker never lets a task failure escape its run loop. Errors returned by
// task functions are delivered unchanged through the task's future; panics
// are recovered and delivered as *PanicError. ErrClosed is the only error a
// submission itself can return.
//
// # Observability
//
// Observer callbacks run on the worker goroutine, between tasks:
//
//   - OnWorkerStart / OnWorkerStop bracket the run loop
//   - OnTaskStart / OnTaskCompleted bracket each task
//   - OnTaskThrottled reports delays imposed by rate limiting
//
// NoopObserver, CompositeObserver, LoggingObserver (log/slog) and
// BasicMetrics are provided. Observers must not submit work to the worker
// that calls them and wait for it; that deadlocks the worker.
//
// # Journal events
//
// TaskEvent is the record appended to a task journal. It is intentionally
// small: it describes what ran, when, for how long and whether it failed,
// never the task's result.
package api
