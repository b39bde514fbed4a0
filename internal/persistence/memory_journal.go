package persistence

import (
	"context"
	"sync"

	"github.com/petrijr/exclusive/pkg/api"
)

// InMemoryJournal is a goroutine-safe Journal backed by a map of slices.
type InMemoryJournal struct {
	mu     sync.RWMutex
	events map[string][]api.TaskEvent
}

// NewInMemoryJournal creates an empty InMemoryJournal.
func NewInMemoryJournal() *InMemoryJournal {
	return &InMemoryJournal{
		events: make(map[string][]api.TaskEvent),
	}
}

var _ Journal = (*InMemoryJournal)(nil)

func (j *InMemoryJournal) Append(ctx context.Context, ev api.TaskEvent) error {
	ev, err := Normalize(ev)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.events[ev.Worker] = append(j.events[ev.Worker], ev)
	return nil
}

func (j *InMemoryJournal) List(ctx context.Context, worker string) ([]api.TaskEvent, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	src := j.events[worker]
	if len(src) == 0 {
		return nil, nil
	}
	out := make([]api.TaskEvent, len(src))
	copy(out, src)
	return out, nil
}

// Workers returns the names of all workers that have events, in no
// particular order.
func (j *InMemoryJournal) Workers() []string {
	j.mu.RLock()
	defer j.mu.RUnlock()

	names := make([]string, 0, len(j.events))
	for name := range j.events {
		names = append(names, name)
	}
	return names
}
