package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
	"github.com/alecgard/dot-goal-journal/internal/core/domain"
)

var _ domain.DayRecordRepository = (*PostgresRecordRepository)(nil)

type PostgresRecordRepository struct {
	db *sqlx.DB
}

func NewPostgresRecordRepository(db *sqlx.DB) *PostgresRecordRepository {
	return &PostgresRecordRepository{db: db}
}

// Upsert inserts a record without an id, reviving a soft-deleted row for the
// same (goal, date) if there is one. A record with an id is updated only if
// its version is still current.
func (r *PostgresRecordRepository) Upsert(ctx context.Context, rec *domain.DayRecord) error {
	if rec.ID == "" {
		return r.insert(ctx, rec)
	}
	return r.update(ctx, rec)
}

func (r *PostgresRecordRepository) insert(ctx context.Context, rec *domain.DayRecord) error {
	query := `
		INSERT INTO day_records (
			id, goal_id, user_id, date,
			is_completed, completed_at, note,
			version, created_at, updated_at, deleted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $8, NULL)
		ON CONFLICT (goal_id, date) DO UPDATE SET
			is_completed = EXCLUDED.is_completed,
			completed_at = EXCLUDED.completed_at,
			note = EXCLUDED.note,
			user_id = EXCLUDED.user_id,
			deleted_at = NULL,
			updated_at = EXCLUDED.updated_at,
			version = day_records.version + 1
		WHERE day_records.deleted_at IS NOT NULL
		RETURNING id, version, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		uuid.NewString(), rec.GoalID, rec.UserID, rec.Date,
		rec.IsCompleted, rec.CompletedAt, rec.Note,
		time.Now().UTC(),
	).Scan(&rec.ID, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		// An active row appeared since the caller looked.
		return domain.ErrRecordConflict
	}
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return domain.ErrGoalNotFound
		}
		return fmt.Errorf("failed to upsert day record: %w", err)
	}
	return nil
}

func (r *PostgresRecordRepository) update(ctx context.Context, rec *domain.DayRecord) error {
	query := `
		UPDATE day_records SET
			is_completed = $1, completed_at = $2, note = $3,
			updated_at = NOW(), version = version + 1
		WHERE id = $4 AND version = $5 AND deleted_at IS NULL
		RETURNING version, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		rec.IsCompleted, rec.CompletedAt, rec.Note,
		rec.ID, rec.Version,
	).Scan(&rec.Version, &rec.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		var count int
		if checkErr := r.db.GetContext(ctx, &count, `SELECT count(*) FROM day_records WHERE id = $1 AND deleted_at IS NULL`, rec.ID); checkErr != nil {
			return fmt.Errorf("existence check failed: %w", checkErr)
		}
		if count == 0 {
			return domain.ErrRecordNotFound
		}
		return domain.ErrRecordConflict
	}
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}
	return nil
}

func (r *PostgresRecordRepository) Get(ctx context.Context, goalID string, date calendar.Date) (*domain.DayRecord, error) {
	var rec domain.DayRecord
	query := `SELECT * FROM day_records WHERE goal_id = $1 AND date = $2 AND deleted_at IS NULL`

	if err := r.db.GetContext(ctx, &rec, query, goalID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *PostgresRecordRepository) ListByGoalID(ctx context.Context, goalID string) ([]*domain.DayRecord, error) {
	records := []*domain.DayRecord{}

	query := `
		SELECT * FROM day_records
		WHERE goal_id = $1 AND deleted_at IS NULL
		ORDER BY date ASC`

	if err := r.db.SelectContext(ctx, &records, query, goalID); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRecordRepository) Delete(ctx context.Context, goalID string, date calendar.Date, userID string) error {
	query := `
		UPDATE day_records
		SET deleted_at = $1, updated_at = $1, version = version + 1
		WHERE goal_id = $2 AND date = $3
		  AND user_id = $4
		  AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), goalID, date, userID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresRecordRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.DayRecord, error) {
	records := []*domain.DayRecord{}

	query := `
		SELECT * FROM day_records
		WHERE user_id = $1 AND updated_at > $2
		ORDER BY updated_at ASC`

	if err := r.db.SelectContext(ctx, &records, query, userID, since); err != nil {
		return nil, err
	}
	return records, nil
}
