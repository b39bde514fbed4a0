package api

import "time"

// TaskInfo identifies one submitted task.
type TaskInfo struct {
	// Worker is the name of the worker the task was submitted to.
	Worker string

	// ID is a random UUID assigned at submission.
	ID string

	// Seq is the 1-based position of the task in the worker's execution
	// order. It is assigned while the task is being enqueued, so it reflects
	// the order tasks will run in.
	Seq uint64

	EnqueuedAt time.Time
}

// EventType identifies a journal event.
type EventType string

const (
	EventWorkerStarted EventType = "worker.started"
	EventWorkerStopped EventType = "worker.stopped"

	EventTaskCompleted EventType = "task.completed"
	EventTaskFailed    EventType = "task.failed"
	EventTaskThrottled EventType = "task.throttled"
)

// TaskEvent is a minimal append-only record of what a worker did.
// Worker lifecycle events leave TaskID empty and Seq zero.
type TaskEvent struct {
	Worker string
	TaskID string
	Seq    uint64
	Type   EventType
	At     time.Time

	// Duration is the task's execution time, or the throttle delay for
	// EventTaskThrottled.
	Duration time.Duration

	// Small, human-oriented details (e.g. an error string).
	// Keep this low-volume: do NOT dump task results here.
	Detail string
}
