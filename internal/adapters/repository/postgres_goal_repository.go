package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/alecgard/dot-goal-journal/internal/core/domain"
)

var _ domain.GoalRepository = (*PostgresGoalRepository)(nil)

type PostgresGoalRepository struct {
	db *sqlx.DB
}

func NewPostgresGoalRepository(db *sqlx.DB) *PostgresGoalRepository {
	return &PostgresGoalRepository{db: db}
}

func (r *PostgresGoalRepository) Create(ctx context.Context, g *domain.Goal) error {
	g.Version = 1

	query := `
		INSERT INTO goals (
			id, user_id, title, description, color, sort_order,
			start_date, end_date, is_archived, is_completed,
			version, created_at, updated_at, deleted_at
		) VALUES (
			:id, :user_id, :title, :description, :color, :sort_order,
			:start_date, :end_date, :is_archived, :is_completed,
			:version, :created_at, :updated_at, NULL
		)`

	if _, err := r.db.NamedExecContext(ctx, query, g); err != nil {
		switch pgCode(err) {
		case codeForeignKeyViolation:
			return domain.ErrUserNotFound
		case codeUniqueViolation:
			return domain.ErrGoalConflict
		}
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

func (r *PostgresGoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	var g domain.Goal
	err := r.db.GetContext(ctx, &g, `SELECT * FROM goals WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return &g, nil
}

func (r *PostgresGoalRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	goals := []*domain.Goal{}

	query := `
		SELECT * FROM goals
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY sort_order ASC, created_at DESC`

	if err := r.db.SelectContext(ctx, &goals, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return goals, nil
}

// Update is guarded by the version the caller read; on success the goal
// carries the new version.
func (r *PostgresGoalRepository) Update(ctx context.Context, g *domain.Goal) error {
	query := `
		UPDATE goals SET
			title = $1, description = $2, color = $3, sort_order = $4,
			start_date = $5, end_date = $6, is_archived = $7, is_completed = $8,
			updated_at = NOW(), version = version + 1
		WHERE id = $9 AND version = $10 AND deleted_at IS NULL
		RETURNING version, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		g.Title, g.Description, g.Color, g.SortOrder,
		g.StartDate, g.EndDate, g.IsArchived, g.IsCompleted,
		g.ID, g.Version,
	).Scan(&g.Version, &g.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		exists, checkErr := r.exists(ctx, g.ID)
		if checkErr != nil {
			return fmt.Errorf("existence check failed: %w", checkErr)
		}
		if !exists {
			return domain.ErrGoalNotFound
		}
		return domain.ErrGoalConflict
	}
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}
	return nil
}

func (r *PostgresGoalRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE goals
		SET deleted_at = NOW(), updated_at = NOW(), version = version + 1
		WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func (r *PostgresGoalRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Goal, error) {
	goals := []*domain.Goal{}

	query := `
		SELECT * FROM goals
		WHERE user_id = $1 AND updated_at > $2
		ORDER BY updated_at ASC`

	if err := r.db.SelectContext(ctx, &goals, query, userID, since); err != nil {
		return nil, fmt.Errorf("sync query error: %w", err)
	}
	return goals, nil
}

func (r *PostgresGoalRepository) exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM goals WHERE id = $1 AND deleted_at IS NULL`, id)
	return count > 0, err
}
