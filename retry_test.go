package exclusive

import (
	"errors"
	"testing"
	"time"
)

// Non-positive maxAttempts is normalized to 1.
func TestRetry_NonPositiveMaxAttemptsDefaultsToOne(t *testing.T) {
	for _, n := range []int{0, -5} {
		if p := Retry(n).Policy(); p.MaxAttempts != 1 {
			t.Fatalf("expected MaxAttempts=1 for Retry(%d), got %d", n, p.MaxAttempts)
		}
	}
}

func TestRetry_WithExponentialBackoff_UsesDefaults(t *testing.T) {
	initial := 100 * time.Millisecond
	max := 2 * time.Second

	// multiplier <= 0 should default to 2.0
	p := Retry(3).
		WithExponentialBackoff(initial, 0, max).
		Policy()

	if p.MaxAttempts != 3 {
		t.Fatalf("expected MaxAttempts=3, got %d", p.MaxAttempts)
	}
	if p.InitialBackoff != initial {
		t.Fatalf("expected InitialBackoff=%v, got %v", initial, p.InitialBackoff)
	}
	if p.MaxBackoff != max {
		t.Fatalf("expected MaxBackoff=%v, got %v", max, p.MaxBackoff)
	}
	if p.BackoffMultiplier != 2.0 {
		t.Fatalf("expected BackoffMultiplier=2.0 (default), got %v", p.BackoffMultiplier)
	}
	if d := p.Delay(2); d != 200*time.Millisecond {
		t.Fatalf("expected second delay 200ms, got %v", d)
	}
}

func TestRetry_WithConstantBackoff(t *testing.T) {
	delay := 250 * time.Millisecond

	p := Retry(5).
		WithConstantBackoff(delay).
		Policy()

	if p.InitialBackoff != delay {
		t.Fatalf("expected InitialBackoff=%v, got %v", delay, p.InitialBackoff)
	}
	if p.BackoffMultiplier != 1.0 {
		t.Fatalf("expected BackoffMultiplier=1.0, got %v", p.BackoffMultiplier)
	}
	for attempt := 1; attempt <= 4; attempt++ {
		if d := p.Delay(attempt); d != delay {
			t.Fatalf("attempt %d: expected constant delay %v, got %v", attempt, delay, d)
		}
	}
}

// Immediate clears all backoff-related timing without changing MaxAttempts.
func TestRetry_ImmediateClearsBackoff(t *testing.T) {
	p := Retry(7).
		WithExponentialBackoff(100*time.Millisecond, 2.0, 5*time.Second).
		Immediate().
		Policy()

	if p.MaxAttempts != 7 {
		t.Fatalf("expected MaxAttempts=7, got %d", p.MaxAttempts)
	}
	if p.InitialBackoff != 0 || p.MaxBackoff != 0 || p.BackoffMultiplier != 0 {
		t.Fatalf("expected all backoff fields cleared, got %+v", p)
	}
	if d := p.Delay(3); d != 0 {
		t.Fatalf("expected no delay, got %v", d)
	}
}

func TestRetry_WhenFiltersErrors(t *testing.T) {
	permanent := errors.New("permanent")
	p := Retry(3).
		When(func(err error) bool { return !errors.Is(err, permanent) }).
		Policy()

	if p.ShouldRetry(permanent) {
		t.Fatalf("permanent error must not be retried")
	}
	if !p.ShouldRetry(errors.New("flaky")) {
		t.Fatalf("other errors should be retried")
	}
}

func TestRetry_OnPanicWidensWhen(t *testing.T) {
	permanent := errors.New("permanent")
	p := Retry(3).
		When(func(err error) bool { return !errors.Is(err, permanent) }).
		OnPanic().
		Policy()

	if !p.ShouldRetry(&PanicError{Value: "boom"}) {
		t.Fatalf("panics should be retried")
	}
	if p.ShouldRetry(permanent) {
		t.Fatalf("permanent error must still not be retried")
	}

	// Without OnPanic the default policy gives up on panics.
	if Retry(3).Policy().ShouldRetry(&PanicError{Value: "boom"}) {
		t.Fatalf("panics must not be retried by default")
	}
}

func TestSubmitRetry_OnPanicRecoversFlakyTask(t *testing.T) {
	w, err := New(0, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	calls := 0
	f, err := SubmitRetry(w, Retry(3).Immediate().OnPanic().Policy(), func(n *int) (int, error) {
		calls++
		if calls == 1 {
			var m map[string]int
			m["x"]++
		}
		*n = calls
		return *n, nil
	})
	if err != nil {
		t.Fatalf("SubmitRetry failed: %v", err)
	}

	v, err := f.Wait()
	if err != nil {
		t.Fatalf("expected success on the second attempt, got %v", err)
	}
	if v != 2 || calls != 2 {
		t.Fatalf("expected value 2 after 2 calls, got v=%d calls=%d", v, calls)
	}
}
