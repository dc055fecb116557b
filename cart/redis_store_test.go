package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, time.Hour), mr
}

func TestRedisStore_LoadMissing(t *testing.T) {
	store, _ := setupTestRedis(t)

	c, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestRedisStore_UpdateAndLoad(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	_, err := store.Update(ctx, "sess-1", func(c *Cart) error {
		c.AddItem(mustItem(t, "1", 5), 2)
		c.AddItem(mustItem(t, "2", 3), 1)
		return nil
	})
	require.NoError(t, err)

	assert.True(t, mr.Exists("cart:sess-1"))
	assert.Equal(t, time.Hour, mr.TTL("cart:sess-1"))

	c, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, c.Items, 2)
	assert.Equal(t, 13.0, c.TotalPrice())
}

func TestRedisStore_FailedUpdateLeavesCartUntouched(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	_, err := store.Update(ctx, "sess-1", func(c *Cart) error {
		c.AddItem(mustItem(t, "1", 5), 2)
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("persistence unreachable")
	_, err = store.Update(ctx, "sess-1", func(c *Cart) error {
		c.Clear()
		return boom
	})
	assert.ErrorIs(t, err, boom)

	c, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, c.TotalItemCount())
}

func TestRedisStore_InvalidJSON(t *testing.T) {
	store, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("cart:sess-1", "{not json"))

	_, err := store.Load(context.Background(), "sess-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal cart failed")
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	_, err := store.Update(ctx, "sess-1", func(c *Cart) error {
		c.AddItem(mustItem(t, "1", 5), 1)
		return nil
	})
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	c, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestRedisStore_Delete(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	_, err := store.Update(ctx, "sess-1", func(c *Cart) error {
		c.AddItem(mustItem(t, "1", 5), 1)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	assert.False(t, mr.Exists("cart:sess-1"))
}
