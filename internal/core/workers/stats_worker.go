package workers

import (
	"context"
	"log"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
	"github.com/alecgard/dot-goal-journal/internal/core/domain"
	"github.com/alecgard/dot-goal-journal/internal/core/grid"
	"github.com/alecgard/dot-goal-journal/internal/core/progress"
	"github.com/alecgard/dot-goal-journal/internal/observability"
)

const queueSize = 100

type GoalReader interface {
	GetByID(ctx context.Context, id string) (*domain.Goal, error)
}

type RecordLister interface {
	ListByGoalID(ctx context.Context, goalID string) ([]*domain.DayRecord, error)
}

type WarmJob struct {
	GoalID string
}

// StatsWorker recomputes a goal's statistics and grid after its ledger
// changes and stores them in the compute cache, so the next read is a hit.
type StatsWorker struct {
	goals   GoalReader
	records RecordLister
	cache   domain.ComputeCache
	clock   calendar.Clock
	jobs    chan WarmJob
}

func NewStatsWorker(goals GoalReader, records RecordLister, cache domain.ComputeCache, clock calendar.Clock) *StatsWorker {
	return &StatsWorker{
		goals:   goals,
		records: records,
		cache:   cache,
		clock:   clock,
		jobs:    make(chan WarmJob, queueSize),
	}
}

func (w *StatsWorker) Start(ctx context.Context) {
	go func() {
		log.Println("[WORKER] stats worker started")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("[WORKER] stats worker shutting down")
				return
			}
		}
	}()
}

// Enqueue never blocks. With no cache there is nothing to warm.
func (w *StatsWorker) Enqueue(goalID string) {
	if w == nil || w.cache == nil {
		return
	}
	select {
	case w.jobs <- WarmJob{GoalID: goalID}:
	default:
		observability.RecordWorkerJob(observability.JobDropped)
		log.Printf("[WORKER] queue full, dropping job for goal %s", goalID)
	}
}

func (w *StatsWorker) processJob(ctx context.Context, job WarmJob) {
	goal, err := w.goals.GetByID(ctx, job.GoalID)
	if err != nil {
		w.fail("fetching goal %s: %v", job.GoalID, err)
		return
	}

	records, err := w.records.ListByGoalID(ctx, job.GoalID)
	if err != nil {
		w.fail("fetching records for %s: %v", job.GoalID, err)
		return
	}

	ledger := domain.LedgerFromPointers(records)
	today := w.clock()
	fingerprint := ledger.Fingerprint(goal.ID)

	stats, err := progress.ForGoal(goal, ledger, today)
	if err != nil {
		w.fail("computing stats for %s: %v", job.GoalID, err)
		return
	}
	observability.RecordComputation(observability.ViewStats)

	layout, err := grid.ForGoal(goal, ledger, today)
	if err != nil {
		w.fail("building grid for %s: %v", job.GoalID, err)
		return
	}
	observability.RecordComputation(observability.ViewGrid)

	if err := w.cache.Store(ctx, domain.StatsCacheKey(goal, fingerprint, today), stats); err != nil {
		w.fail("storing stats for %s: %v", job.GoalID, err)
		return
	}
	if err := w.cache.Store(ctx, domain.GridCacheKey(goal, fingerprint, today), layout); err != nil {
		w.fail("storing grid for %s: %v", job.GoalID, err)
		return
	}

	observability.RecordWorkerJob(observability.JobWarmed)
	log.Printf("[WORKER] warmed %s: %d/%d days, streak %d", goal.Title, stats.TotalCompleted, stats.TotalDays, stats.CurrentStreak)
}

func (w *StatsWorker) fail(format string, args ...any) {
	observability.RecordWorkerJob(observability.JobFailed)
	log.Printf("[WORKER] error "+format, args...)
}
