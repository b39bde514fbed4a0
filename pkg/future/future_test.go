package future

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestPromise_ResolveDeliversValue(t *testing.T) {
	p := NewPromise[int]("t1")
	f := p.Future()

	if f.Ready() {
		t.Fatalf("future must not be ready before resolution")
	}
	if !p.Resolve(42) {
		t.Fatalf("first Resolve should succeed")
	}
	if !f.Ready() {
		t.Fatalf("future should be ready after resolution")
	}

	v, err := f.Wait()
	if err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
	if f.ID() != "t1" {
		t.Fatalf("expected ID t1, got %q", f.ID())
	}
}

func TestPromise_RejectDeliversErrorAndNoValue(t *testing.T) {
	p := NewPromise[string]("t2")
	boom := errors.New("boom")

	p.Reject(boom)

	v, err := p.Future().Wait()
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if v != "" {
		t.Fatalf("expected zero value alongside error, got %q", v)
	}
}

func TestPromise_CompleteErrorWinsOverValue(t *testing.T) {
	p := NewPromise[int]("t3")
	p.Complete(7, errors.New("failed"))

	v, err := p.Future().Wait()
	if err == nil || v != 0 {
		t.Fatalf("expected (0, error), got (%d, %v)", v, err)
	}
}

func TestPromise_OnlyFirstOutcomeIsRecorded(t *testing.T) {
	p := NewPromise[int]("t4")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	wg.Add(10)
	for i := 0; i < 10; i++ {
		go func() {
			defer wg.Done()
			if p.Resolve(i) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one winning Resolve, got %d", wins)
	}
	if p.Reject(errors.New("late")) {
		t.Fatalf("Reject after Resolve must report false")
	}
	if _, err := p.Future().Wait(); err != nil {
		t.Fatalf("late Reject must not overwrite value, got %v", err)
	}
}

func TestFuture_WaitFromManyGoroutines(t *testing.T) {
	p := NewPromise[string]("t5")
	f := p.Future()

	const waiters = 5
	results := make(chan string, waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			v, _ := f.Wait()
			results <- v
		}()
	}

	time.Sleep(10 * time.Millisecond)
	p.Resolve("hello")

	for i := 0; i < waiters; i++ {
		select {
		case v := <-results:
			if v != "hello" {
				t.Fatalf("waiter %d got %q", i, v)
			}
		case <-time.After(time.Second):
			t.Fatalf("waiter %d never woke up", i)
		}
	}
}

func TestFuture_WaitContextTimesOut(t *testing.T) {
	f := NewPromise[int]("t6").Future()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.WaitContext(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if f.Ready() {
		t.Fatalf("timing out must not resolve the future")
	}
}

func TestFailedAndResolvedHelpers(t *testing.T) {
	boom := errors.New("boom")

	if _, err := Failed[int]("x", boom).Wait(); !errors.Is(err, boom) {
		t.Fatalf("Failed: expected boom, got %v", err)
	}
	if v, err := Resolved("y", 3).Wait(); err != nil || v != 3 {
		t.Fatalf("Resolved: expected (3, nil), got (%d, %v)", v, err)
	}
}
