package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const maxUpdateAttempts = 5

var ErrConcurrentUpdate = errors.New("cart was modified concurrently, try again")

// RedisStore keeps session carts in Redis so that several API instances can
// serve the same browsing session. Every write refreshes the TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	c, err := s.read(ctx, s.client, sessionID)
	if err != nil {
		return nil, err
	}
	if !c.IsEmpty() {
		// sliding expiry; a failed refresh only shortens the session
		_ = s.client.Expire(ctx, sessionKey(sessionID), s.ttl).Err()
	}
	return c, nil
}

// Update uses WATCH/MULTI so that two requests racing on one session cannot
// overwrite each other; the loser re-reads and re-applies fn.
func (s *RedisStore) Update(ctx context.Context, sessionID string, fn func(*Cart) error) (*Cart, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	key := sessionKey(sessionID)
	var result *Cart

	txf := func(tx *redis.Tx) error {
		working, err := s.read(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if err := fn(working); err != nil {
			return err
		}

		data, err := json.Marshal(working)
		if err != nil {
			return fmt.Errorf("marshal cart failed: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result = working
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
	}
	return nil, ErrConcurrentUpdate
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (s *RedisStore) read(ctx context.Context, r getter, sessionID string) (*Cart, error) {
	data, err := r.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &c, nil
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
