package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/petrijr/exclusive/pkg/api"
)

var (
	// ErrNilDB is returned by SQL-backed journals constructed without a database.
	ErrNilDB = errors.New("journal: nil database")

	// ErrMissingWorker is returned when an event without a worker name is appended.
	ErrMissingWorker = errors.New("journal: event has no worker name")
)

// Journal is an append-only history of what workers did. Events are listed
// per worker in the order they were appended.
type Journal interface {
	Append(ctx context.Context, ev api.TaskEvent) error
	List(ctx context.Context, worker string) ([]api.TaskEvent, error)
}

// NoopJournal discards all events.
type NoopJournal struct{}

func (NoopJournal) Append(ctx context.Context, ev api.TaskEvent) error { return nil }
func (NoopJournal) List(ctx context.Context, worker string) ([]api.TaskEvent, error) {
	return nil, nil
}

// Normalize validates ev and stamps it with the current time if At is unset.
// Backends call it at the top of Append.
func Normalize(ev api.TaskEvent) (api.TaskEvent, error) {
	if ev.Worker == "" {
		return ev, ErrMissingWorker
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	return ev, nil
}
