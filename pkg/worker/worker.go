package worker

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/petrijr/exclusive/internal/pacer"
	"github.com/petrijr/exclusive/internal/taskqueue"
	"github.com/petrijr/exclusive/pkg/api"
	"github.com/petrijr/exclusive/pkg/future"
)

// task is one queued unit of work. run executes against the owned state;
// settle publishes the final outcome to the submitter.
type task[S any] struct {
	info   api.TaskInfo
	run    func(*S) error
	settle func(error)

	// marker is set on the shutdown sentinel only.
	marker bool
}

// Worker owns a value of type S and runs submitted functions against it, one
// at a time, on a dedicated goroutine. No other goroutine ever receives a
// pointer to the state.
type Worker[S any] struct {
	name   string
	obs    api.Observer
	logger *slog.Logger
	pacer  *pacer.Pacer
	queue  taskqueue.Queue[*task[S]]

	// state and stopping belong to the run goroutine.
	state    S
	stopping bool

	// mu orders submissions: seq and queue position are assigned together,
	// and nothing is pushed after the shutdown marker.
	mu     sync.Mutex
	closed bool
	seq    uint64

	done chan struct{}
}

// New takes ownership of initial and starts the worker goroutine.
func New[S any](initial S, opts ...Option) (*Worker[S], error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	w := &Worker[S]{
		name:   cfg.Name,
		obs:    cfg.Observer,
		logger: cfg.Logger,
		pacer:  pacer.New(cfg.MaxTasksPerSecond),
		queue:  taskqueue.NewBlockingQueue[*task[S]](),
		state:  initial,
		done:   make(chan struct{}),
	}

	go w.run()
	return w, nil
}

// Submit enqueues fn and returns a future for its result without waiting.
//
// fn runs on the worker goroutine with exclusive access to the state. Tasks
// run in the order their Submit calls returned. An error returned by fn is
// delivered unchanged through the future; a panic is recovered and delivered
// as *api.PanicError. Neither affects later tasks.
//
// Submit returns api.ErrClosed once Close or Stop has been called.
//
// fn may submit further work to the same worker but must not wait for it:
// the worker cannot run the new task until fn returns.
func Submit[S, R any](w *Worker[S], fn func(*S) (R, error)) (*future.Future[R], error) {
	p := future.NewPromise[R](uuid.NewString())

	var value R
	t := &task[S]{
		run: func(s *S) error {
			v, err := fn(s)
			value = v
			return err
		},
		settle: func(err error) {
			p.Complete(value, err)
		},
	}

	if err := w.enqueue(t, p.Future().ID()); err != nil {
		return nil, err
	}
	return p.Future(), nil
}

// SubmitRetry is like Submit but re-runs fn according to policy while it
// fails. All attempts happen inside a single task, so no other task observes
// the state between attempts; backoff sleeps hold up the worker.
//
// A panic in fn counts as a failed attempt carrying a *api.PanicError, so
// policy.Retryable sees it like any other error.
func SubmitRetry[S, R any](w *Worker[S], policy api.RetryPolicy, fn func(*S) (R, error)) (*future.Future[R], error) {
	attempts := policy.Attempts()
	return Submit(w, func(s *S) (R, error) {
		for attempt := 1; ; attempt++ {
			v, err := attemptOnce(w, attempt, s, fn)
			if err == nil || attempt >= attempts || !policy.ShouldRetry(err) {
				return v, err
			}
			if d := policy.Delay(attempt); d > 0 {
				time.Sleep(d)
			}
		}
	})
}

func attemptOnce[S, R any](w *Worker[S], attempt int, s *S, fn func(*S) (R, error)) (v R, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			w.logger.Error("task_panicked",
				slog.String("worker", w.name),
				slog.Int("attempt", attempt),
				slog.Any("panic", r),
				slog.String("stack", string(stack)),
			)
			var zero R
			v, err = zero, &api.PanicError{Value: r, Stack: stack}
		}
	}()
	return fn(s)
}

// Do enqueues a function that produces no value.
func (w *Worker[S]) Do(fn func(*S) error) (*future.Future[struct{}], error) {
	return Submit(w, func(s *S) (struct{}, error) {
		return struct{}{}, fn(s)
	})
}

// SwapState replaces the owned state with next and returns a future for the
// previous value. The swap is queued like any other task: tasks submitted
// before it see the old state, tasks submitted after it see next.
func (w *Worker[S]) SwapState(next S) (*future.Future[S], error) {
	return Submit(w, func(s *S) (S, error) {
		old := *s
		*s = next
		return old, nil
	})
}

// SetState is SwapState followed by Wait. It must not be called from a task
// running on w.
func (w *Worker[S]) SetState(next S) (S, error) {
	f, err := w.SwapState(next)
	if err != nil {
		var zero S
		return zero, err
	}
	return f.Wait()
}

// Snapshot returns a future for a copy of the state, taken between tasks at
// the snapshot's queue position. The copy is shallow: maps, slices and
// pointers inside S still alias worker-owned memory and must be treated as
// read-only.
func (w *Worker[S]) Snapshot() (*future.Future[S], error) {
	return Submit(w, func(s *S) (S, error) {
		return *s, nil
	})
}

// State is Snapshot followed by Wait. It must not be called from a task
// running on w.
func (w *Worker[S]) State() (S, error) {
	f, err := w.Snapshot()
	if err != nil {
		var zero S
		return zero, err
	}
	return f.Wait()
}

// Name returns the worker's name.
func (w *Worker[S]) Name() string {
	return w.name
}

// Len returns the number of queued tasks, including a pending shutdown
// marker.
func (w *Worker[S]) Len() int {
	return w.queue.Len()
}

// Done returns a channel that is closed when the worker goroutine has exited.
func (w *Worker[S]) Done() <-chan struct{} {
	return w.done
}

// Close stops accepting work, waits for every previously submitted task to
// finish, and waits for the worker goroutine to exit. It is safe to call more
// than once. Close must not be called from a task running on w.
func (w *Worker[S]) Close() error {
	w.shutdown()
	<-w.done
	return nil
}

// Stop is like Close but stops waiting when ctx is done. The worker keeps
// draining its queue in the background.
func (w *Worker[S]) Stop(ctx context.Context) error {
	w.shutdown()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker[S]) enqueue(t *task[S], id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return api.ErrClosed
	}

	w.seq++
	t.info = api.TaskInfo{
		Worker:     w.name,
		ID:         id,
		Seq:        w.seq,
		EnqueuedAt: time.Now(),
	}
	w.queue.Push(t)
	return nil
}

// shutdown queues the marker exactly once, behind every accepted task.
func (w *Worker[S]) shutdown() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.closed = true
	w.queue.Push(&task[S]{
		marker: true,
		run: func(*S) error {
			w.stopping = true
			return nil
		},
	})
}

func (w *Worker[S]) run() {
	defer close(w.done)

	ctx := context.Background()
	w.logger.DebugContext(ctx, "worker_started",
		slog.String("worker", w.name),
		slog.Duration("min_interval", w.pacer.Interval()),
	)
	w.notify(ctx, "worker_start", func() { w.obs.OnWorkerStart(ctx, w.name) })

	for !w.stopping {
		t := w.queue.Pop()
		if t.marker {
			_ = t.run(&w.state)
			continue
		}
		w.execute(ctx, t)
	}

	w.notify(ctx, "worker_stop", func() { w.obs.OnWorkerStop(ctx, w.name) })
	w.logger.DebugContext(ctx, "worker_stopped", slog.String("worker", w.name))
}

func (w *Worker[S]) execute(ctx context.Context, t *task[S]) {
	w.notify(ctx, "task_start", func() { w.obs.OnTaskStart(ctx, t.info) })
	w.pacer.Begin()

	start := time.Now()
	err := w.protect(ctx, t)
	d := time.Since(start)

	w.notify(ctx, "task_completed", func() { w.obs.OnTaskCompleted(ctx, t.info, err, d) })
	t.settle(err)

	if wait := w.pacer.Wait(); wait > 0 {
		w.notify(ctx, "task_throttled", func() { w.obs.OnTaskThrottled(ctx, t.info, wait) })
	}
}

// notify runs one observer callback. A panicking observer is logged and
// otherwise ignored; the task outcome and the worker are unaffected.
func (w *Worker[S]) notify(ctx context.Context, callback string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.ErrorContext(ctx, "observer_panicked",
				slog.String("worker", w.name),
				slog.String("callback", callback),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	fn()
}

// protect runs the task and converts a panic into a *api.PanicError so that
// a misbehaving task cannot take the worker goroutine down.
func (w *Worker[S]) protect(ctx context.Context, t *task[S]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			w.logger.ErrorContext(ctx, "task_panicked",
				slog.String("worker", w.name),
				slog.String("task_id", t.info.ID),
				slog.Uint64("seq", t.info.Seq),
				slog.Any("panic", r),
				slog.String("stack", string(stack)),
			)
			err = &api.PanicError{Value: r, Stack: stack}
		}
	}()
	return t.run(&w.state)
}
