package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_LoadUnknownSession(t *testing.T) {
	s := NewMemoryStore(time.Hour)

	c, err := s.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestMemoryStore_RequiresSessionID(t *testing.T) {
	s := NewMemoryStore(time.Hour)

	_, err := s.Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = s.Update(context.Background(), "", func(*Cart) error { return nil })
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStore_UpdatePersists(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)
	item := mustItem(t, "1", 5)

	_, err := s.Update(ctx, "sess-1", func(c *Cart) error {
		c.AddItem(item, 2)
		return nil
	})
	require.NoError(t, err)

	c, err := s.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, c.TotalItemCount())

	other, err := s.Load(ctx, "sess-2")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())
}

func TestMemoryStore_FailedUpdateLeavesCartUntouched(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	_, err := s.Update(ctx, "sess-1", func(c *Cart) error {
		c.AddItem(mustItem(t, "1", 5), 2)
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = s.Update(ctx, "sess-1", func(c *Cart) error {
		c.Clear()
		return boom
	})
	assert.ErrorIs(t, err, boom)

	c, err := s.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, c.TotalItemCount())
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)
	_, err := s.Update(ctx, "sess-1", func(c *Cart) error {
		c.AddItem(mustItem(t, "1", 5), 1)
		return nil
	})
	require.NoError(t, err)

	c, _ := s.Load(ctx, "sess-1")
	c.Clear()

	again, _ := s.Load(ctx, "sess-1")
	assert.Equal(t, 1, again.TotalItemCount())
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, err := s.Update(ctx, "sess-1", func(c *Cart) error {
		c.AddItem(mustItem(t, "1", 5), 1)
		return nil
	})
	require.NoError(t, err)
	_, err = s.Update(ctx, "sess-2", func(c *Cart) error {
		c.AddItem(mustItem(t, "1", 5), 1)
		return nil
	})
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)

	c, err := s.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 1, s.Sweep())
}

func TestMemoryStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)
	item := mustItem(t, "1", 1)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update(ctx, "sess-1", func(c *Cart) error {
				c.AddItem(item, 1)
				return nil
			})
		}()
	}
	wg.Wait()

	c, err := s.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 50, c.TotalItemCount())
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)
	_, _ = s.Update(ctx, "sess-1", func(c *Cart) error {
		c.AddItem(mustItem(t, "1", 5), 1)
		return nil
	})

	require.NoError(t, s.Delete(ctx, "sess-1"))

	c, _ := s.Load(ctx, "sess-1")
	assert.True(t, c.IsEmpty())
}
