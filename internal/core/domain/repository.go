package domain

import (
	"context"
	"errors"
	"time"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
)

var (
	ErrGoalNotFound   = errors.New("goal not found")
	ErrGoalConflict   = errors.New("goal version conflict")
	ErrRecordNotFound = errors.New("day record not found")
	ErrRecordConflict = errors.New("day record version conflict")
)

type GoalRepository interface {
	// Create persists a new goal.
	Create(ctx context.Context, goal *Goal) error

	// GetByID returns an active (non-deleted) goal.
	GetByID(ctx context.Context, id string) (*Goal, error)

	// ListByUserID returns the user's active goals ordered by sort order.
	ListByUserID(ctx context.Context, userID string) ([]*Goal, error)

	// Update writes the goal if its version still matches the stored one.
	Update(ctx context.Context, goal *Goal) error

	// Delete soft-deletes the goal so the removal can be synced.
	Delete(ctx context.Context, id string) error

	// GetChanges returns goals touched after since, including deleted ones.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*Goal, error)
}

// DayRecordRepository is the durable store behind the completion ledger.
type DayRecordRepository interface {
	// Upsert creates the (goal, date) record or updates it with a version check.
	Upsert(ctx context.Context, record *DayRecord) error

	// Get returns the active record for (goal, date).
	Get(ctx context.Context, goalID string, date calendar.Date) (*DayRecord, error)

	// ListByGoalID returns every active record of the goal in date order.
	ListByGoalID(ctx context.Context, goalID string) ([]*DayRecord, error)

	// Delete soft-deletes the (goal, date) record owned by userID.
	Delete(ctx context.Context, goalID string, date calendar.Date, userID string) error

	// GetChanges returns the user's records touched after since.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*DayRecord, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Delete(ctx context.Context, id string) error
}
