// Package lock provides mutual exclusion shared by every process pointed at
// the same Redis instance or, without Redis, the same Postgres database.
package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock re-acquired by another process is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lease is a held lock. Release it exactly once.
type Lease interface {
	Release(ctx context.Context) error
}

// Locker hands out leases. TryAcquire returns a nil lease without error when
// the key is already held.
type Locker interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

// RedisLocker acquires locks with SET NX PX.
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

type redisLease struct {
	client *redis.Client
	key    string
	token  string
}

func (l *RedisLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &redisLease{client: l.client, key: key, token: token}, nil
}

func (le *redisLease) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, le.client, []string{le.key}, le.token).Err()
}
