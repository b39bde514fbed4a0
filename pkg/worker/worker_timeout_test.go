package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/petrijr/exclusive/pkg/api"
	"github.com/petrijr/exclusive/pkg/future"
)

func TestWorker_CloseDrainsEverySubmittedTask(t *testing.T) {
	w, err := New(0, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	const m = 25
	futures := make([]*future.Future[int], 0, m)
	for i := 0; i < m; i++ {
		f, err := Submit(w, func(c *int) (int, error) {
			time.Sleep(time.Millisecond)
			*c++
			return *c, nil
		})
		if err != nil {
			t.Fatalf("Submit %d failed: %v", i, err)
		}
		futures = append(futures, f)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Close returned, so every task must already be resolved.
	for i, f := range futures {
		if !f.Ready() {
			t.Fatalf("task %d not finished when Close returned", i)
		}
		v, err := f.Wait()
		if err != nil || v != i+1 {
			t.Fatalf("task %d: expected (%d, nil), got (%d, %v)", i, i+1, v, err)
		}
	}

	select {
	case <-w.Done():
	default:
		t.Fatalf("worker goroutine still running after Close")
	}
}

func TestWorker_CloseDeliversFailuresToo(t *testing.T) {
	w, err := New("s", WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	boom := errors.New("boom")
	failing, err := w.Do(func(*string) error { return boom })
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	panicking, err := w.Do(func(*string) error { panic("kaboom") })
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	_ = w.Close()

	if _, err := failing.Wait(); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := panicking.Wait(); !api.IsPanic(err) {
		t.Fatalf("expected a panic error, got %v", err)
	}
}

func TestWorker_SubmitAfterCloseIsRejected(t *testing.T) {
	w, err := New(0, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_ = w.Close()

	ran := false
	f, err := Submit(w, func(c *int) (int, error) {
		ran = true
		return 0, nil
	})
	if !errors.Is(err, api.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if f != nil {
		t.Fatalf("expected no future for a rejected submission")
	}

	if _, err := w.Do(func(*int) error { return nil }); !errors.Is(err, api.ErrClosed) {
		t.Fatalf("Do: expected ErrClosed, got %v", err)
	}
	if _, err := w.SwapState(5); !errors.Is(err, api.ErrClosed) {
		t.Fatalf("SwapState: expected ErrClosed, got %v", err)
	}
	if _, err := w.SetState(5); !errors.Is(err, api.ErrClosed) {
		t.Fatalf("SetState: expected ErrClosed, got %v", err)
	}
	if _, err := w.State(); !errors.Is(err, api.ErrClosed) {
		t.Fatalf("State: expected ErrClosed, got %v", err)
	}
	if ran {
		t.Fatalf("rejected task must never run")
	}
}

func TestWorker_CloseIsIdempotent(t *testing.T) {
	w, err := New(0, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := w.Close(); err != nil {
			t.Fatalf("Close #%d failed: %v", i+1, err)
		}
	}
	if err := w.Stop(context.Background()); err != nil {
		t.Fatalf("Stop after Close failed: %v", err)
	}
}

func TestWorker_StopHonorsContextWhileDraining(t *testing.T) {
	w, err := New(0, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	release := make(chan struct{})
	blocked, err := w.Do(func(*int) error {
		<-release
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := w.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded while a task is blocked, got %v", err)
	}

	// Shutdown has begun even though Stop gave up waiting.
	if _, err := w.Do(func(*int) error { return nil }); !errors.Is(err, api.ErrClosed) {
		t.Fatalf("expected ErrClosed after Stop, got %v", err)
	}

	close(release)

	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatalf("worker did not exit after the blocking task finished")
	}
	if !blocked.Ready() {
		t.Fatalf("blocked task should have been resolved during drain")
	}
}

func TestWorker_ConcurrentCloseAndSubmitNeverLosesAcceptedTasks(t *testing.T) {
	for round := 0; round < 20; round++ {
		w, err := New(0, WithLogger(quietLogger()))
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}

		accepted := make(chan *future.Future[int], 100)
		go func() {
			defer close(accepted)
			for i := 0; i < 100; i++ {
				f, err := Submit(w, func(c *int) (int, error) {
					*c++
					return *c, nil
				})
				if err != nil {
					return
				}
				accepted <- f
			}
		}()

		time.Sleep(time.Duration(round%3) * 100 * time.Microsecond)
		_ = w.Close()

		for f := range accepted {
			select {
			case <-f.Done():
			case <-time.After(time.Second):
				t.Fatalf("round %d: accepted task %s never ran", round, f.ID())
			}
		}
	}
}
