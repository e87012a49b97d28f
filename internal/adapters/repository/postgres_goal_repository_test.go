package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
	"github.com/alecgard/dot-goal-journal/internal/core/domain"
)

func newTestGoal(t *testing.T, userID string) *domain.Goal {
	t.Helper()
	g, err := domain.NewGoal(userID, "Run every day", "", "", calendar.MustParse("2024-03-01"), calendar.MustParse("2024-03-31"))
	require.NoError(t, err)
	return g
}

func TestPostgresGoalRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)
	defer cleanup(t, db)

	users := NewPostgresUserRepository(db)
	repo := NewPostgresGoalRepository(db)
	ctx := context.Background()

	user := createTestUser(t, users)
	since := time.Now().UTC().Add(-time.Minute)

	g := newTestGoal(t, user.ID)
	require.NoError(t, repo.Create(ctx, g))

	t.Run("Success: GetByID keeps the calendar dates", func(t *testing.T) {
		got, err := repo.GetByID(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-01", got.StartDate.String())
		assert.Equal(t, "2024-03-31", got.EndDate.String())
		assert.Equal(t, 1, got.Version)
		assert.Equal(t, domain.DefaultColor, got.Color)
	})

	t.Run("Failure: Unknown owner", func(t *testing.T) {
		orphan := newTestGoal(t, uuid.NewString())
		assert.ErrorIs(t, repo.Create(ctx, orphan), domain.ErrUserNotFound)
	})

	t.Run("Success: Update bumps the version", func(t *testing.T) {
		got, err := repo.GetByID(ctx, g.ID)
		require.NoError(t, err)

		got.Title = "Run most days"
		require.NoError(t, repo.Update(ctx, got))
		assert.Equal(t, 2, got.Version)
	})

	t.Run("Failure: Stale version conflicts", func(t *testing.T) {
		stale := *g
		stale.Version = 1
		assert.ErrorIs(t, repo.Update(ctx, &stale), domain.ErrGoalConflict)

		missing := newTestGoal(t, user.ID)
		assert.ErrorIs(t, repo.Update(ctx, missing), domain.ErrGoalNotFound)
	})

	t.Run("Success: List orders by sort order", func(t *testing.T) {
		second := newTestGoal(t, user.ID)
		second.SortOrder = -1
		require.NoError(t, repo.Create(ctx, second))

		goals, err := repo.ListByUserID(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, goals, 2)
		assert.Equal(t, second.ID, goals[0].ID)
	})

	t.Run("Success: Delete is soft and visible to sync", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, g.ID))
		assert.ErrorIs(t, repo.Delete(ctx, g.ID), domain.ErrGoalNotFound)

		_, err := repo.GetByID(ctx, g.ID)
		assert.ErrorIs(t, err, domain.ErrGoalNotFound)

		changes, err := repo.GetChanges(ctx, user.ID, since)
		require.NoError(t, err)

		var deleted *domain.Goal
		for _, c := range changes {
			if c.ID == g.ID {
				deleted = c
			}
		}
		require.NotNil(t, deleted)
		assert.NotNil(t, deleted.DeletedAt)
	})
}
