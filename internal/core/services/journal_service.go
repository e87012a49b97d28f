package services

import (
	"context"
	"log"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
	"github.com/alecgard/dot-goal-journal/internal/core/domain"
	"github.com/alecgard/dot-goal-journal/internal/core/grid"
	"github.com/alecgard/dot-goal-journal/internal/core/progress"
	"github.com/alecgard/dot-goal-journal/internal/observability"
)

// JournalService feeds a goal and its ledger through the expander, the
// aggregator and the grid builder. It is the only place that resolves "today"
// from a clock; the engine always receives it.
type JournalService struct {
	goalRepo   domain.GoalRepository
	recordRepo domain.DayRecordRepository
	cache      domain.ComputeCache
	clock      calendar.Clock
}

// NewJournalService accepts a nil cache.
func NewJournalService(goalRepo domain.GoalRepository, recordRepo domain.DayRecordRepository, cache domain.ComputeCache, clock calendar.Clock) *JournalService {
	return &JournalService{
		goalRepo:   goalRepo,
		recordRepo: recordRepo,
		cache:      cache,
		clock:      clock,
	}
}

// Today returns the explicit day when given, otherwise the clock's.
func (s *JournalService) Today(explicit calendar.Date) calendar.Date {
	if !explicit.IsZero() {
		return explicit
	}
	return s.clock()
}

func (s *JournalService) Timeline(ctx context.Context, goalID, userID string) ([]domain.Day, error) {
	goal, err := s.ownedGoal(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}
	return domain.ExpandGoal(goal)
}

func (s *JournalService) Stats(ctx context.Context, goalID, userID string, today calendar.Date) (domain.DerivedStats, error) {
	goal, ledger, err := s.load(ctx, goalID, userID)
	if err != nil {
		return domain.DerivedStats{}, err
	}
	return s.statsFor(ctx, goal, ledger, s.Today(today))
}

func (s *JournalService) Grid(ctx context.Context, goalID, userID string, today calendar.Date) (domain.Grid, error) {
	goal, ledger, err := s.load(ctx, goalID, userID)
	if err != nil {
		return domain.Grid{}, err
	}

	today = s.Today(today)
	key := domain.GridCacheKey(goal, ledger.Fingerprint(goal.ID), today)

	var cached domain.Grid
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}

	layout, err := grid.ForGoal(goal, ledger, today)
	if err != nil {
		return domain.Grid{}, err
	}
	observability.RecordComputation(observability.ViewGrid)

	s.remember(ctx, key, layout)
	return layout, nil
}

// Overview summarizes every active, non-archived goal of the user.
func (s *JournalService) Overview(ctx context.Context, userID string, today calendar.Date) ([]domain.GoalSummary, error) {
	goals, err := s.goalRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	today = s.Today(today)
	out := make([]domain.GoalSummary, 0, len(goals))
	for _, goal := range goals {
		if goal.IsArchived {
			continue
		}

		records, err := s.recordRepo.ListByGoalID(ctx, goal.ID)
		if err != nil {
			return nil, err
		}

		stats, err := s.statsFor(ctx, goal, domain.LedgerFromPointers(records), today)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.GoalSummary{Goal: goal, Stats: stats})
	}
	return out, nil
}

func (s *JournalService) statsFor(ctx context.Context, goal *domain.Goal, ledger domain.Ledger, today calendar.Date) (domain.DerivedStats, error) {
	key := domain.StatsCacheKey(goal, ledger.Fingerprint(goal.ID), today)

	var cached domain.DerivedStats
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}

	stats, err := progress.ForGoal(goal, ledger, today)
	if err != nil {
		return domain.DerivedStats{}, err
	}
	observability.RecordComputation(observability.ViewStats)

	s.remember(ctx, key, stats)
	return stats, nil
}

func (s *JournalService) load(ctx context.Context, goalID, userID string) (*domain.Goal, domain.Ledger, error) {
	goal, err := s.ownedGoal(ctx, goalID, userID)
	if err != nil {
		return nil, domain.Ledger{}, err
	}

	records, err := s.recordRepo.ListByGoalID(ctx, goal.ID)
	if err != nil {
		return nil, domain.Ledger{}, err
	}

	return goal, domain.LedgerFromPointers(records), nil
}

func (s *JournalService) ownedGoal(ctx context.Context, goalID, userID string) (*domain.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return goal, nil
}

// Cache failures degrade to a recomputation.
func (s *JournalService) lookup(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}

	hit, err := s.cache.Load(ctx, key, dest)
	if err != nil {
		log.Printf("[CACHE] error reading %s: %v", key, err)
		return false
	}
	observability.RecordCacheLookup(hit)
	return hit
}

func (s *JournalService) remember(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Store(ctx, key, value); err != nil {
		log.Printf("[CACHE] error writing %s: %v", key, err)
	}
}
