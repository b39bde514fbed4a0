package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from a worker for logging and metrics.
//
// All callbacks run on the worker's own goroutine, between tasks.
// Implementations should be fast and non-blocking; heavy work should be done
// asynchronously so as not to delay task execution.
type Observer interface {
	// OnWorkerStart is called once, on the worker goroutine, before the
	// first task is taken from the queue.
	OnWorkerStart(ctx context.Context, worker string)

	// OnWorkerStop is called once after the queue has been drained and the
	// run loop has exited.
	OnWorkerStop(ctx context.Context, worker string)

	// OnTaskStart is called before invoking a task function.
	OnTaskStart(ctx context.Context, info TaskInfo)

	// OnTaskCompleted is called after a task function returns, for both
	// successes and failures (err != nil). A recovered panic is reported
	// as a *PanicError.
	OnTaskCompleted(ctx context.Context, info TaskInfo, err error, duration time.Duration)

	// OnTaskThrottled is called when rate limiting delays the worker after
	// the task described by info.
	OnTaskThrottled(ctx context.Context, info TaskInfo, wait time.Duration)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnWorkerStart(ctx context.Context, worker string)   {}
func (NoopObserver) OnWorkerStop(ctx context.Context, worker string)    {}
func (NoopObserver) OnTaskStart(ctx context.Context, info TaskInfo)     {}
func (NoopObserver) OnTaskCompleted(ctx context.Context, info TaskInfo, err error, d time.Duration) {
}
func (NoopObserver) OnTaskThrottled(ctx context.Context, info TaskInfo, wait time.Duration) {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnWorkerStart(ctx context.Context, worker string) {
	for _, o := range c.observers {
		o.OnWorkerStart(ctx, worker)
	}
}

func (c *CompositeObserver) OnWorkerStop(ctx context.Context, worker string) {
	for _, o := range c.observers {
		o.OnWorkerStop(ctx, worker)
	}
}

func (c *CompositeObserver) OnTaskStart(ctx context.Context, info TaskInfo) {
	for _, o := range c.observers {
		o.OnTaskStart(ctx, info)
	}
}

func (c *CompositeObserver) OnTaskCompleted(ctx context.Context, info TaskInfo, err error, d time.Duration) {
	for _, o := range c.observers {
		o.OnTaskCompleted(ctx, info, err, d)
	}
}

func (c *CompositeObserver) OnTaskThrottled(ctx context.Context, info TaskInfo, wait time.Duration) {
	for _, o := range c.observers {
		o.OnTaskThrottled(ctx, info, wait)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs worker / task lifecycle
// events using the provided slog.Logger. If logger is nil, slog.Default()
// is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnWorkerStart(ctx context.Context, worker string) {
	o.Logger.InfoContext(ctx, "worker_start",
		slog.String("worker", worker),
	)
}

func (o *LoggingObserver) OnWorkerStop(ctx context.Context, worker string) {
	o.Logger.InfoContext(ctx, "worker_stop",
		slog.String("worker", worker),
	)
}

func (o *LoggingObserver) OnTaskStart(ctx context.Context, info TaskInfo) {
	o.Logger.DebugContext(ctx, "task_start",
		slog.String("worker", info.Worker),
		slog.String("task_id", info.ID),
		slog.Uint64("seq", info.Seq),
		slog.Duration("queued", time.Since(info.EnqueuedAt)),
	)
}

func (o *LoggingObserver) OnTaskCompleted(ctx context.Context, info TaskInfo, err error, d time.Duration) {
	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelError
	}
	o.Logger.Log(ctx, level, "task_completed",
		slog.String("worker", info.Worker),
		slog.String("task_id", info.ID),
		slog.Uint64("seq", info.Seq),
		slog.Duration("duration", d),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnTaskThrottled(ctx context.Context, info TaskInfo, wait time.Duration) {
	o.Logger.DebugContext(ctx, "task_throttled",
		slog.String("worker", info.Worker),
		slog.Uint64("seq", info.Seq),
		slog.Duration("wait", wait),
	)
}

// BasicMetrics collects simple counters and aggregate task durations.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	tasksStarted      atomic.Int64
	tasksCompleted    atomic.Int64
	tasksFailed       atomic.Int64
	tasksPanicked     atomic.Int64
	totalTaskDuration atomic.Int64 // nanoseconds
	throttled         atomic.Int64
	totalThrottle     atomic.Int64 // nanoseconds
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	TasksStarted   int64
	TasksCompleted int64
	TasksFailed    int64
	TasksPanicked  int64
	RunningTasks   int64

	AvgTaskDuration time.Duration

	Throttled     int64
	TotalThrottle time.Duration
}

func (m *BasicMetrics) OnTaskStart(ctx context.Context, info TaskInfo) {
	m.tasksStarted.Add(1)
}

func (m *BasicMetrics) OnTaskCompleted(ctx context.Context, info TaskInfo, err error, d time.Duration) {
	if err != nil {
		m.tasksFailed.Add(1)
		if IsPanic(err) {
			m.tasksPanicked.Add(1)
		}
		return
	}
	// Only successful tasks count toward the average duration.
	m.tasksCompleted.Add(1)
	m.totalTaskDuration.Add(d.Nanoseconds())
}

func (m *BasicMetrics) OnTaskThrottled(ctx context.Context, info TaskInfo, wait time.Duration) {
	m.throttled.Add(1)
	m.totalThrottle.Add(wait.Nanoseconds())
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	started := m.tasksStarted.Load()
	completed := m.tasksCompleted.Load()
	failed := m.tasksFailed.Load()
	totalNs := m.totalTaskDuration.Load()

	var avg time.Duration
	if completed > 0 {
		avg = time.Duration(totalNs / completed)
	}

	return BasicMetricsSnapshot{
		TasksStarted:    started,
		TasksCompleted:  completed,
		TasksFailed:     failed,
		TasksPanicked:   m.tasksPanicked.Load(),
		RunningTasks:    started - completed - failed,
		AvgTaskDuration: avg,
		Throttled:       m.throttled.Load(),
		TotalThrottle:   time.Duration(m.totalThrottle.Load()),
	}
}
