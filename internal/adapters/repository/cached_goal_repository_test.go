package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	rdb := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_HOST", "localhost") + ":" + getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Skipf("Skipping Redis integration test: %v", err)
	}

	require.NoError(t, rdb.FlushDB(ctx).Err())
	return rdb
}

func TestCachedGoalRepository_Integration(t *testing.T) {
	rdb := setupTestRedis(t)
	defer rdb.Close()

	ctx := context.Background()
	inner := NewInMemoryGoalRepository()
	repo := NewCachedGoalRepository(inner, rdb)

	g := newTestGoal(t, "user-1")
	require.NoError(t, repo.Create(ctx, g))

	t.Run("Success: First list fills the cache", func(t *testing.T) {
		goals, err := repo.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, goals, 1)

		exists, err := rdb.Exists(ctx, goalListKey("user-1")).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), exists)
	})

	t.Run("Success: Cached list keeps calendar dates", func(t *testing.T) {
		goals, err := repo.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, goals, 1)
		assert.Equal(t, g.StartDate, goals[0].StartDate)
		assert.Equal(t, g.EndDate, goals[0].EndDate)
	})

	t.Run("Success: Writes invalidate the user's list", func(t *testing.T) {
		got, err := repo.GetByID(ctx, g.ID)
		require.NoError(t, err)
		got.Title = "Renamed"
		require.NoError(t, repo.Update(ctx, got))

		exists, err := rdb.Exists(ctx, goalListKey("user-1")).Result()
		require.NoError(t, err)
		assert.Zero(t, exists)

		goals, err := repo.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", goals[0].Title)
	})

	t.Run("Success: Delete invalidates too", func(t *testing.T) {
		_, err := repo.ListByUserID(ctx, "user-1")
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, g.ID))

		goals, err := repo.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, goals)
	})

	t.Run("Corrupt entries fall through to the store", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, goalListKey("user-9"), "{bad", time.Minute).Err())

		goals, err := repo.ListByUserID(ctx, "user-9")
		require.NoError(t, err)
		assert.Empty(t, goals)
	})
}
