package api

import (
	"errors"
	"testing"
	"time"
)

func TestRetryPolicy_AttemptsNormalized(t *testing.T) {
	if got := (RetryPolicy{}).Attempts(); got != 1 {
		t.Fatalf("expected 1 attempt for zero policy, got %d", got)
	}
	if got := (RetryPolicy{MaxAttempts: -3}).Attempts(); got != 1 {
		t.Fatalf("expected 1 attempt for negative MaxAttempts, got %d", got)
	}
	if got := (RetryPolicy{MaxAttempts: 4}).Attempts(); got != 4 {
		t.Fatalf("expected 4 attempts, got %d", got)
	}
}

func TestRetryPolicy_DelayExponentialWithCap(t *testing.T) {
	p := RetryPolicy{
		MaxAttempts:       5,
		InitialBackoff:    10 * time.Millisecond,
		BackoffMultiplier: 2,
		MaxBackoff:        50 * time.Millisecond,
	}

	want := []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
		50 * time.Millisecond,
		50 * time.Millisecond,
	}
	for i, w := range want {
		if got := p.Delay(i + 1); got != w {
			t.Fatalf("Delay(%d)=%v, want %v", i+1, got, w)
		}
	}
}

func TestRetryPolicy_DelayConstantAndImmediate(t *testing.T) {
	constant := RetryPolicy{InitialBackoff: 5 * time.Millisecond, BackoffMultiplier: 1}
	if constant.Delay(1) != 5*time.Millisecond || constant.Delay(4) != 5*time.Millisecond {
		t.Fatalf("expected constant 5ms delay, got %v and %v", constant.Delay(1), constant.Delay(4))
	}

	immediate := RetryPolicy{}
	if immediate.Delay(3) != 0 {
		t.Fatalf("expected zero delay, got %v", immediate.Delay(3))
	}
}

func TestRetryPolicy_ShouldRetry(t *testing.T) {
	p := RetryPolicy{}
	if p.ShouldRetry(nil) {
		t.Fatalf("nil error must not be retried")
	}
	if !p.ShouldRetry(errors.New("transient")) {
		t.Fatalf("plain errors are retried by default")
	}
	if p.ShouldRetry(&PanicError{Value: "boom"}) {
		t.Fatalf("panics are not retried by default")
	}

	permanent := errors.New("permanent")
	custom := RetryPolicy{Retryable: func(err error) bool { return !errors.Is(err, permanent) }}
	if custom.ShouldRetry(permanent) {
		t.Fatalf("custom Retryable should reject permanent error")
	}
}
