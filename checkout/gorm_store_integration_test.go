//go:build integration

package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fruitika/storefront-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPostgres(t *testing.T) *gorm.DB {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("fruitika"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	require.NoError(t, db.Create(&models.User{ID: "u1", Email: "buyer@example.com"}).Error)
	return db
}

func TestGormOrderStore_Postgres_ConcurrentSameKey(t *testing.T) {
	db := setupPostgres(t)
	store := NewGormOrderStore(db)
	ctx := context.Background()

	const submits = 8
	ids := make([]string, submits)
	var wg sync.WaitGroup
	for i := 0; i < submits; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, _, err := store.CreateOrder(ctx, orderRequest(t, "same-key"))
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGormOrderStore_Postgres_StatusFlow(t *testing.T) {
	store := NewGormOrderStore(setupPostgres(t))
	ctx := context.Background()

	id, _, err := store.CreateOrder(ctx, orderRequest(t, "flow"))
	require.NoError(t, err)

	for _, st := range []models.OrderStatus{models.OrderStatusPacked, models.OrderStatusShipped, models.OrderStatusDelivered} {
		_, err := store.UpdateStatus(ctx, id, StatusUpdate{Status: st})
		require.NoError(t, err)
	}

	order, err := store.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
	assert.NotNil(t, order.DeliveredAt)
	assert.Len(t, order.TrackingLogs, 4)
}
