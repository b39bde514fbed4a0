package persistence

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	corep "github.com/petrijr/exclusive/internal/persistence"
	"github.com/petrijr/exclusive/pkg/api"
)

// RedisJournal is a Journal backed by Redis.
// It uses a simple key structure:
//
//	<prefix>events:<worker>  => LIST of gob-encoded events, oldest first
//	<prefix>workers          => SET of worker names with at least one event
//
// RPUSH keeps per-worker append order without any extra sequencing.
type RedisJournal struct {
	client redis.UniversalClient
	prefix string
}

var _ corep.Journal = (*RedisJournal)(nil)

// NewRedisJournal creates a RedisJournal.
// prefix is optional but recommended (e.g. "exclusive:").
func NewRedisJournal(client redis.UniversalClient, prefix string) *RedisJournal {
	if prefix == "" {
		prefix = "exclusive:"
	}
	return &RedisJournal{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisJournal) keyEvents(worker string) string {
	return r.prefix + "events:" + worker
}

func (r *RedisJournal) keyWorkers() string {
	return r.prefix + "workers"
}

func (r *RedisJournal) Append(ctx context.Context, ev api.TaskEvent) error {
	ev, err := corep.Normalize(ev)
	if err != nil {
		return err
	}
	data, err := corep.EncodeEvent(ev)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, r.keyEvents(ev.Worker), data)
	pipe.SAdd(ctx, r.keyWorkers(), ev.Worker)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis journal: append: %w", err)
	}
	return nil
}

func (r *RedisJournal) List(ctx context.Context, worker string) ([]api.TaskEvent, error) {
	raw, err := r.client.LRange(ctx, r.keyEvents(worker), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis journal: list: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	out := make([]api.TaskEvent, 0, len(raw))
	for _, item := range raw {
		ev, err := corep.DecodeEvent([]byte(item))
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

// Workers returns the names of all workers with journaled events, sorted.
func (r *RedisJournal) Workers(ctx context.Context) ([]string, error) {
	names, err := r.client.SMembers(ctx, r.keyWorkers()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis journal: workers: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Trim drops all but the newest keep events of worker. keep <= 0 removes the
// worker's history entirely.
func (r *RedisJournal) Trim(ctx context.Context, worker string, keep int64) error {
	if keep <= 0 {
		pipe := r.client.TxPipeline()
		pipe.Del(ctx, r.keyEvents(worker))
		pipe.SRem(ctx, r.keyWorkers(), worker)
		_, err := pipe.Exec(ctx)
		return err
	}
	return r.client.LTrim(ctx, r.keyEvents(worker), -keep, -1).Err()
}
