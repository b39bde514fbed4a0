package exclusive

import (
	"database/sql"

	"github.com/petrijr/exclusive/internal/persistence"
	"github.com/petrijr/exclusive/pkg/api"
	"github.com/petrijr/exclusive/pkg/worker"
)

// WorkerBundle wires together a Worker, a durable Journal of its activity and
// in-process metrics.
type WorkerBundle[S any] struct {
	Worker  *Worker[S]
	Journal Journal
	Metrics *BasicMetrics
}

// NewSQLiteBundle constructs a Worker owning initial whose lifecycle and task
// outcomes are journaled in db and counted in Metrics. Any WithObserver in
// opts is kept and runs alongside the bundle's observers.
//
// Typical usage:
//
//	db, _ := sql.Open("sqlite", "file:worker.db?_journal=WAL")
//	bundle, err := exclusive.NewSQLiteBundle(db, 0, exclusive.WithName("counter"))
//	f, _ := exclusive.Submit(bundle.Worker, increment)
//	events, _ := bundle.Journal.List(ctx, "counter")
func NewSQLiteBundle[S any](db *sql.DB, initial S, opts ...Option) (*WorkerBundle[S], error) {
	journal, err := persistence.NewSQLiteJournal(db)
	if err != nil {
		return nil, err
	}
	return newBundle(journal, initial, opts...)
}

// NewBundle is NewSQLiteBundle for an arbitrary Journal, such as one of the
// Redis, Postgres or MongoDB backends.
func NewBundle[S any](journal Journal, initial S, opts ...Option) (*WorkerBundle[S], error) {
	return newBundle(journal, initial, opts...)
}

func newBundle[S any](journal Journal, initial S, opts ...Option) (*WorkerBundle[S], error) {
	// Resolve the caller's observer and logger so the bundle can wrap them.
	cfg := worker.DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	metrics := &api.BasicMetrics{}
	observer := api.NewCompositeObserver(
		cfg.Observer,
		persistence.NewJournalObserver(journal, cfg.Logger),
		metrics,
	)

	all := make([]Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, worker.WithObserver(observer))

	w, err := worker.New(initial, all...)
	if err != nil {
		return nil, err
	}

	return &WorkerBundle[S]{
		Worker:  w,
		Journal: journal,
		Metrics: metrics,
	}, nil
}

// Close closes the bundle's worker. The journal's database is owned by the
// caller and stays open.
func (b *WorkerBundle[S]) Close() error {
	return b.Worker.Close()
}
