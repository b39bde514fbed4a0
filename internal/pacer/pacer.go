package pacer

import (
	"math"
	"time"
)

// Pacer spaces consecutive task starts at least one interval apart.
//
// Call Begin when a task starts and Wait when it finishes. Wait sleeps for
// whatever is left of the interval, measured from the matching Begin. A task
// that already took the whole interval is not delayed.
//
// A Pacer is used by a single goroutine and is not safe for concurrent use.
// The nil *Pacer is valid and never sleeps.
type Pacer struct {
	interval time.Duration
	start    time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// New returns a Pacer for at most tasksPerSecond task starts per second, or
// nil when tasksPerSecond is zero, negative, NaN or infinite.
func New(tasksPerSecond float64) *Pacer {
	if !(tasksPerSecond > 0) || math.IsInf(tasksPerSecond, 1) {
		return nil
	}
	interval := time.Duration(float64(time.Second) / tasksPerSecond)
	if interval <= 0 {
		return nil
	}
	return &Pacer{
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Interval returns the minimum spacing between task starts.
func (p *Pacer) Interval() time.Duration {
	if p == nil {
		return 0
	}
	return p.interval
}

// Begin records the start of a task.
func (p *Pacer) Begin() {
	if p == nil {
		return
	}
	p.start = p.now()
}

// Wait sleeps until one interval has passed since the last Begin and returns
// the time slept.
func (p *Pacer) Wait() time.Duration {
	if p == nil || p.start.IsZero() {
		return 0
	}
	// Both readings come from time.Now and carry the monotonic clock.
	elapsed := p.now().Sub(p.start)
	if elapsed >= p.interval {
		return 0
	}
	remaining := p.interval - elapsed
	p.sleep(remaining)
	return remaining
}
