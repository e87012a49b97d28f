package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
	"github.com/alecgard/dot-goal-journal/internal/core/domain"
)

func TestPostgresRecordRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)
	defer cleanup(t, db)

	ctx := context.Background()
	user := createTestUser(t, NewPostgresUserRepository(db))

	g := newTestGoal(t, user.ID)
	require.NoError(t, NewPostgresGoalRepository(db).Create(ctx, g))

	repo := NewPostgresRecordRepository(db)
	day := calendar.MustParse("2024-03-05")
	since := time.Now().UTC().Add(-time.Minute)

	rec := domain.NewDayRecord(g.ID, user.ID, day)
	rec.SetCompleted(true, time.Now())

	t.Run("Success: Insert assigns id and version", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, rec))
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, 1, rec.Version)

		got, err := repo.Get(ctx, g.ID, day)
		require.NoError(t, err)
		assert.True(t, got.IsCompleted)
		assert.NotNil(t, got.CompletedAt)
		assert.Equal(t, day, got.Date)
	})

	t.Run("Failure: Second insert for the same day conflicts", func(t *testing.T) {
		dup := domain.NewDayRecord(g.ID, user.ID, day)
		assert.ErrorIs(t, repo.Upsert(ctx, dup), domain.ErrRecordConflict)
	})

	t.Run("Success: Versioned update", func(t *testing.T) {
		require.NoError(t, rec.SetNote("felt good"))
		require.NoError(t, repo.Upsert(ctx, rec))
		assert.Equal(t, 2, rec.Version)

		stale := *rec
		stale.Version = 1
		assert.ErrorIs(t, repo.Upsert(ctx, &stale), domain.ErrRecordConflict)
	})

	t.Run("Failure: Unknown goal", func(t *testing.T) {
		orphan := domain.NewDayRecord("missing-goal", user.ID, day)
		assert.ErrorIs(t, repo.Upsert(ctx, orphan), domain.ErrGoalNotFound)
	})

	t.Run("Success: List is in date order", func(t *testing.T) {
		earlier := domain.NewDayRecord(g.ID, user.ID, calendar.MustParse("2024-03-02"))
		require.NoError(t, repo.Upsert(ctx, earlier))

		records, err := repo.ListByGoalID(ctx, g.ID)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "2024-03-02", records[0].Date.String())
		assert.Equal(t, "2024-03-05", records[1].Date.String())
	})

	t.Run("Success: Delete then revive the same day", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, g.ID, day, "someone-else"), domain.ErrRecordNotFound)
		require.NoError(t, repo.Delete(ctx, g.ID, day, user.ID))

		_, err := repo.Get(ctx, g.ID, day)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)

		revived := domain.NewDayRecord(g.ID, user.ID, day)
		require.NoError(t, repo.Upsert(ctx, revived))
		assert.Equal(t, rec.ID, revived.ID)
		assert.Greater(t, revived.Version, rec.Version)
		assert.False(t, revived.IsCompleted)
	})

	t.Run("Success: Changes include every touched record", func(t *testing.T) {
		changes, err := repo.GetChanges(ctx, user.ID, since)
		require.NoError(t, err)
		assert.Len(t, changes, 2)
	})
}
