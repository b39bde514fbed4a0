// Package redis provides a Redis-backed journal for exclusive workers.
package redis

import (
	"github.com/redis/go-redis/v9"

	rpersistence "github.com/petrijr/exclusive/redis/internal/persistence"
)

// RedisJournal records worker events in Redis lists, one per worker.
type RedisJournal = rpersistence.RedisJournal

// NewRedisJournal returns a Journal that stores events under prefix
// ("exclusive:" when empty). client may be a *redis.Client, a cluster client
// or any other redis.UniversalClient.
func NewRedisJournal(client redis.UniversalClient, prefix string) *RedisJournal {
	return rpersistence.NewRedisJournal(client, prefix)
}
