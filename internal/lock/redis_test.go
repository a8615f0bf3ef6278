package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *redis.Client {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisLocker_ExclusiveUntilReleased(t *testing.T) {
	client := newTestClient(t)
	locker := NewRedisLocker(client)
	ctx := context.Background()
	key := "test:lock:" + uuid.NewString()

	first, err := locker.TryAcquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := locker.TryAcquire(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Nil(t, second)

	require.NoError(t, first.Release(ctx))

	third, err := locker.TryAcquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, third)
	require.NoError(t, third.Release(ctx))
}

func TestLease_ReleaseKeepsForeignToken(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	key := "test:lock:" + uuid.NewString()

	require.NoError(t, client.Set(ctx, key, "someone-else", time.Minute).Err())
	t.Cleanup(func() { client.Del(ctx, key) })

	stale := &redisLease{client: client, key: key, token: "mine"}
	require.NoError(t, stale.Release(ctx))

	val, err := client.Get(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, "someone-else", val)
}
