package exclusive

import (
	"database/sql"
	"log/slog"

	"github.com/petrijr/exclusive/internal/persistence"
	"github.com/petrijr/exclusive/pkg/api"
	"github.com/petrijr/exclusive/pkg/future"
	"github.com/petrijr/exclusive/pkg/worker"
)

// Re-export key types so users don't need to dig into pkg/.

type (
	Worker[S any]        = worker.Worker[S]
	Option               = worker.Option
	Config               = worker.Config
	Future[T any]        = future.Future[T]
	Promise[T any]       = future.Promise[T]
	TaskInfo             = api.TaskInfo
	TaskEvent            = api.TaskEvent
	EventType            = api.EventType
	PanicError           = api.PanicError
	RetryPolicy          = api.RetryPolicy
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver
	Journal              = persistence.Journal
	InMemoryJournal      = persistence.InMemoryJournal
	SQLiteJournal        = persistence.SQLiteJournal
	JournalObserver      = persistence.JournalObserver
)

// Re-export errors.

var (
	ErrClosed      = api.ErrClosed
	ErrInvalidRate = api.ErrInvalidRate
)

// Re-export event types.

const (
	EventWorkerStarted = api.EventWorkerStarted
	EventWorkerStopped = api.EventWorkerStopped
	EventTaskCompleted = api.EventTaskCompleted
	EventTaskFailed    = api.EventTaskFailed
	EventTaskThrottled = api.EventTaskThrottled
)

// Re-export common observer helpers and options.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
	IsPanic              = api.IsPanic

	WithName              = worker.WithName
	WithMaxTasksPerSecond = worker.WithMaxTasksPerSecond
	WithObserver          = worker.WithObserver
	WithLogger            = worker.WithLogger
	DefaultConfig         = worker.DefaultConfig
)

// New takes ownership of initial and starts a worker for it.
// See worker.New.
func New[S any](initial S, opts ...Option) (*Worker[S], error) {
	return worker.New(initial, opts...)
}

// Submit enqueues fn on w. See worker.Submit.
func Submit[S, R any](w *Worker[S], fn func(*S) (R, error)) (*Future[R], error) {
	return worker.Submit(w, fn)
}

// SubmitRetry enqueues fn on w, re-running it according to policy.
// See worker.SubmitRetry.
func SubmitRetry[S, R any](w *Worker[S], policy RetryPolicy, fn func(*S) (R, error)) (*Future[R], error) {
	return worker.SubmitRetry(w, policy, fn)
}

// Journal constructors.
// These wrap the internal/persistence package so external callers
// never need to import internal packages.

// NewInMemoryJournal returns a non-durable Journal, useful in tests.
func NewInMemoryJournal() *InMemoryJournal {
	return persistence.NewInMemoryJournal()
}

// NewSQLiteJournal returns a Journal that stores events in the task_events
// table of db, creating it if needed. Open db with the "sqlite" driver from
// modernc.org/sqlite.
func NewSQLiteJournal(db *sql.DB) (*SQLiteJournal, error) {
	return persistence.NewSQLiteJournal(db)
}

// NewJournalObserver returns an Observer that records worker activity in j.
// Append failures are logged to logger (slog.Default() when nil).
func NewJournalObserver(j Journal, logger *slog.Logger) *JournalObserver {
	return persistence.NewJournalObserver(j, logger)
}
