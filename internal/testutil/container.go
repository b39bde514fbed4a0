// Package testutil starts shared Testcontainers instances for the journal
// backend integration tests. When a container cannot be started (no Docker,
// rootless Docker on Windows, CI without privileges) the calling test is
// skipped rather than failed.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

// startupTimeout is generous for CI environments.
const startupTimeout = 3 * time.Minute

// shared starts a container at most once per test binary and remembers the
// endpoint (or the error) for every later caller.
type shared struct {
	name string

	once     sync.Once
	endpoint string
	err      error
}

// get returns the endpoint produced by start, skipping t on failure.
//
// The container is not tied to t's lifetime; Testcontainers' reaper removes
// it when the test binary exits.
func (s *shared) get(t *testing.T, start func(ctx context.Context) (testcontainers.Container, string, error)) string {
	t.Helper()

	if testing.Short() {
		t.Skipf("skipping %s integration test in -short mode", s.name)
	}

	s.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()

		// Testcontainers may panic when no Docker host can be found.
		defer func() {
			if r := recover(); r != nil {
				s.err = fmt.Errorf("starting %s testcontainer panicked: %v", s.name, r)
			}
		}()

		c, endpoint, err := start(ctx)
		if err != nil {
			// TerminateContainer tolerates a nil container.
			_ = testcontainers.TerminateContainer(c) // best-effort cleanup
			s.err = fmt.Errorf("starting %s testcontainer: %w", s.name, err)
			return
		}
		s.endpoint = endpoint
	})

	if s.err != nil {
		t.Skipf("skipping %s tests: %v", s.name, s.err)
	}
	return s.endpoint
}
