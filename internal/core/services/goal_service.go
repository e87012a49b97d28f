package services

import (
	"context"
	"fmt"
	"time"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
	"github.com/alecgard/dot-goal-journal/internal/core/domain"
)

type GoalService struct {
	repo domain.GoalRepository
}

func NewGoalService(repo domain.GoalRepository) *GoalService {
	return &GoalService{
		repo: repo,
	}
}

type CreateGoalInput struct {
	UserID      string
	Title       string
	Description string
	Color       string
	StartDate   calendar.Date
	EndDate     calendar.Date
	SortOrder   int
}

type UpdateGoalInput struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Color       string
	StartDate   calendar.Date
	EndDate     calendar.Date
	SortOrder   *int
	Version     int
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

func mergeDate(newVal, oldVal calendar.Date) calendar.Date {
	if newVal.IsZero() {
		return oldVal
	}
	return newVal
}

func (s *GoalService) Create(ctx context.Context, input CreateGoalInput) (*domain.Goal, error) {
	goal, err := domain.NewGoal(input.UserID, input.Title, input.Description, input.Color, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	goal.SortOrder = input.SortOrder

	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, err
	}

	return goal, nil
}

// GetByID hides goals of other users behind ErrGoalNotFound.
func (s *GoalService) GetByID(ctx context.Context, id, userID string) (*domain.Goal, error) {
	goal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	return goal, nil
}

func (s *GoalService) List(ctx context.Context, userID string, archived bool) ([]*domain.Goal, error) {
	goals, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Goal, 0, len(goals))
	for _, g := range goals {
		if g.IsArchived == archived {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *GoalService) GetDelta(ctx context.Context, userID string, lastSync time.Time) ([]*domain.Goal, error) {
	return s.repo.GetChanges(ctx, userID, lastSync)
}

func (s *GoalService) Update(ctx context.Context, input UpdateGoalInput) (*domain.Goal, error) {
	goal, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && goal.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrGoalConflict, input.Version, goal.Version)
	}

	err = goal.Update(
		mergeString(input.Title, goal.Title),
		mergeString(input.Description, goal.Description),
		mergeString(input.Color, goal.Color),
		mergeDate(input.StartDate, goal.StartDate),
		mergeDate(input.EndDate, goal.EndDate),
	)
	if err != nil {
		return nil, err
	}

	if input.SortOrder != nil {
		if err := goal.ChangePosition(*input.SortOrder); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Archive(ctx context.Context, id, userID string) (*domain.Goal, error) {
	return s.transition(ctx, id, userID, (*domain.Goal).Archive)
}

func (s *GoalService) Restore(ctx context.Context, id, userID string) (*domain.Goal, error) {
	return s.transition(ctx, id, userID, (*domain.Goal).Restore)
}

func (s *GoalService) Complete(ctx context.Context, id, userID string) (*domain.Goal, error) {
	return s.transition(ctx, id, userID, (*domain.Goal).MarkCompleted)
}

func (s *GoalService) Reopen(ctx context.Context, id, userID string) (*domain.Goal, error) {
	return s.transition(ctx, id, userID, (*domain.Goal).Reopen)
}

// transition applies an idempotent lifecycle change and only writes when
// something actually changed.
func (s *GoalService) transition(ctx context.Context, id, userID string, apply func(*domain.Goal)) (*domain.Goal, error) {
	goal, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	wasArchived, wasCompleted := goal.IsArchived, goal.IsCompleted
	apply(goal)
	if goal.IsArchived == wasArchived && goal.IsCompleted == wasCompleted {
		return goal, nil
	}

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
