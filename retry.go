package exclusive

import (
	"time"

	"github.com/petrijr/exclusive/pkg/api"
)

// RetryBuilder assembles a RetryPolicy step by step. Every method returns a
// modified copy, so a partially configured builder can be shared and
// specialised:
//
//	base := exclusive.Retry(4).WithExponentialBackoff(10*time.Millisecond, 2, 80*time.Millisecond)
//	f, err := exclusive.SubmitRetry(w, base.When(isTimeout).Policy(), fetch)
type RetryBuilder struct {
	policy RetryPolicy
}

// Retry starts a builder allowing up to attempts runs of the task, the first
// run included. Values below one mean a single run.
func Retry(attempts int) RetryBuilder {
	return RetryBuilder{policy: RetryPolicy{MaxAttempts: max(attempts, 1)}}
}

// WithExponentialBackoff waits initial before the first retry and multiplies
// the wait by factor for each further retry, capped at limit when limit > 0.
// A factor <= 0 means 2.
//
// Waits happen on the worker goroutine and hold up every queued task.
func (r RetryBuilder) WithExponentialBackoff(initial time.Duration, factor float64, limit time.Duration) RetryBuilder {
	if factor <= 0 {
		factor = 2
	}
	r.policy.InitialBackoff = initial
	r.policy.BackoffMultiplier = factor
	r.policy.MaxBackoff = limit
	return r
}

// WithConstantBackoff waits delay before every retry.
func (r RetryBuilder) WithConstantBackoff(delay time.Duration) RetryBuilder {
	r.policy.InitialBackoff = delay
	r.policy.BackoffMultiplier = 1
	r.policy.MaxBackoff = 0
	return r
}

// Immediate retries without waiting. The attempt limit is unchanged.
func (r RetryBuilder) Immediate() RetryBuilder {
	r.policy.InitialBackoff, r.policy.BackoffMultiplier, r.policy.MaxBackoff = 0, 0, 0
	return r
}

// When limits retries to errors accepted by retryable. Panics reach it as
// *PanicError.
func (r RetryBuilder) When(retryable func(error) bool) RetryBuilder {
	r.policy.Retryable = retryable
	return r
}

// OnPanic also retries tasks that panicked, on top of whatever When allows.
// Without it, panics end the retry loop at once.
func (r RetryBuilder) OnPanic() RetryBuilder {
	prev := r.policy.Retryable
	r.policy.Retryable = func(err error) bool {
		if api.IsPanic(err) {
			return true
		}
		if prev != nil {
			return prev(err)
		}
		return true
	}
	return r
}

// Policy returns the assembled policy for SubmitRetry.
func (r RetryBuilder) Policy() RetryPolicy {
	return r.policy
}
