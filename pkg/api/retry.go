package api

import "time"

// RetryPolicy controls how a task is retried when it returns an error.
// MaxAttempts includes the first attempt. For example:
//
//	MaxAttempts = 1 => no retries (just the initial call)
//	MaxAttempts = 3 => initial call + up to 2 retries
//
// Backoff is not applied before the first attempt. Retries run on the worker
// goroutine, so no other task interleaves between attempts.
type RetryPolicy struct {
	MaxAttempts int

	// InitialBackoff is the delay before the first retry. Zero retries
	// immediately.
	InitialBackoff time.Duration

	// BackoffMultiplier grows the delay after each retry. Values <= 1 keep
	// the delay constant.
	BackoffMultiplier float64

	// MaxBackoff caps the delay; zero means no cap.
	MaxBackoff time.Duration

	// Retryable decides whether an error should be retried. Nil retries
	// every error except panics.
	Retryable func(err error) bool
}

// Attempts returns the normalized number of attempts (at least 1).
func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts <= 0 {
		return 1
	}
	return p.MaxAttempts
}

// Delay returns the backoff to wait before retry number n (1-based).
func (p RetryPolicy) Delay(n int) time.Duration {
	if n <= 0 || p.InitialBackoff <= 0 {
		return 0
	}
	d := float64(p.InitialBackoff)
	if p.BackoffMultiplier > 1 {
		for i := 1; i < n; i++ {
			d *= p.BackoffMultiplier
			if p.MaxBackoff > 0 && d >= float64(p.MaxBackoff) {
				return p.MaxBackoff
			}
		}
	}
	if p.MaxBackoff > 0 && d > float64(p.MaxBackoff) {
		return p.MaxBackoff
	}
	return time.Duration(d)
}

// ShouldRetry reports whether err is eligible for another attempt.
func (p RetryPolicy) ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return !IsPanic(err)
}
