package services

import (
	"context"
	"errors"
	"time"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
	"github.com/alecgard/dot-goal-journal/internal/core/domain"
	"github.com/alecgard/dot-goal-journal/internal/observability"
)

// LedgerObserver is told which goal's ledger just changed.
type LedgerObserver interface {
	Enqueue(goalID string)
}

type RecordService struct {
	repo     domain.DayRecordRepository
	goalRepo domain.GoalRepository
	observer LedgerObserver
	clock    calendar.Clock
	now      func() time.Time
}

func NewRecordService(repo domain.DayRecordRepository, goalRepo domain.GoalRepository, observer LedgerObserver, clock calendar.Clock) *RecordService {
	return &RecordService{
		repo:     repo,
		goalRepo: goalRepo,
		observer: observer,
		clock:    clock,
		now:      time.Now,
	}
}

// SetDayInput leaves a field untouched when its pointer is nil.
type SetDayInput struct {
	GoalID      string
	UserID      string
	Date        calendar.Date
	IsCompleted *bool
	Note        *string
	Version     int
}

func (s *RecordService) SetDay(ctx context.Context, input SetDayInput) (*domain.DayRecord, error) {
	goal, err := s.writableGoal(ctx, input.GoalID, input.UserID, input.Date)
	if err != nil {
		return nil, err
	}

	record, err := s.current(ctx, goal, input.UserID, input.Date)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && record.Version != input.Version {
		return nil, domain.ErrRecordConflict
	}

	if input.IsCompleted != nil {
		if *input.IsCompleted {
			if err := s.checkCompletable(input.Date); err != nil {
				return nil, err
			}
		}
		record.SetCompleted(*input.IsCompleted, s.now())
	}

	if input.Note != nil {
		if err := record.SetNote(*input.Note); err != nil {
			return nil, err
		}
	}

	return s.save(ctx, record)
}

// Toggle flips the completion flag of one day.
func (s *RecordService) Toggle(ctx context.Context, goalID, userID string, date calendar.Date) (*domain.DayRecord, error) {
	goal, err := s.writableGoal(ctx, goalID, userID, date)
	if err != nil {
		return nil, err
	}

	record, err := s.current(ctx, goal, userID, date)
	if err != nil {
		return nil, err
	}

	if !record.IsCompleted {
		if err := s.checkCompletable(date); err != nil {
			return nil, err
		}
	}
	record.Toggle(s.now())

	return s.save(ctx, record)
}

func (s *RecordService) Get(ctx context.Context, goalID, userID string, date calendar.Date) (*domain.DayRecord, error) {
	if _, err := s.ownedGoal(ctx, goalID, userID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, goalID, date)
}

func (s *RecordService) List(ctx context.Context, goalID, userID string) ([]*domain.DayRecord, error) {
	if _, err := s.ownedGoal(ctx, goalID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByGoalID(ctx, goalID)
}

// Clear removes the record, which reads back as "not completed".
func (s *RecordService) Clear(ctx context.Context, goalID, userID string, date calendar.Date) error {
	if _, err := s.ownedGoal(ctx, goalID, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, goalID, date, userID); err != nil {
		return err
	}

	observability.RecordLedgerWrite(s.now())
	s.notify(goalID)
	return nil
}

func (s *RecordService) GetDelta(ctx context.Context, userID string, since time.Time) ([]*domain.DayRecord, error) {
	return s.repo.GetChanges(ctx, userID, since)
}

func (s *RecordService) ownedGoal(ctx context.Context, goalID, userID string) (*domain.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return goal, nil
}

func (s *RecordService) writableGoal(ctx context.Context, goalID, userID string, date calendar.Date) (*domain.Goal, error) {
	if date.IsZero() {
		return nil, &calendar.InvalidDateError{Reason: "date is required"}
	}

	goal, err := s.ownedGoal(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}
	if goal.IsArchived {
		return nil, domain.ErrGoalArchived
	}
	if !goal.Contains(date) {
		return nil, domain.ErrDateOutsideGoal
	}
	return goal, nil
}

func (s *RecordService) checkCompletable(date calendar.Date) error {
	if date.IsFuture(s.clock()) {
		return domain.ErrFutureDate
	}
	return nil
}

// current returns the stored record or a fresh unsaved one.
func (s *RecordService) current(ctx context.Context, goal *domain.Goal, userID string, date calendar.Date) (*domain.DayRecord, error) {
	record, err := s.repo.Get(ctx, goal.ID, date)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.NewDayRecord(goal.ID, userID, date), nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *RecordService) save(ctx context.Context, record *domain.DayRecord) (*domain.DayRecord, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	observability.RecordLedgerWrite(record.UpdatedAt)
	s.notify(record.GoalID)
	return record, nil
}

func (s *RecordService) notify(goalID string) {
	if s.observer != nil {
		s.observer.Enqueue(goalID)
	}
}
