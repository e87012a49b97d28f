package domain

import (
	"context"
	"fmt"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
)

// ComputeCache memoizes derived views. Keys embed the goal span, the ledger
// fingerprint and today, so an entry can only expire, never go stale.
type ComputeCache interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Store(ctx context.Context, key string, value any) error
}

func StatsCacheKey(g *Goal, fingerprint uint64, today calendar.Date) string {
	return computeKey("stats", g, fingerprint, today)
}

func GridCacheKey(g *Goal, fingerprint uint64, today calendar.Date) string {
	return computeKey("grid", g, fingerprint, today)
}

func computeKey(kind string, g *Goal, fingerprint uint64, today calendar.Date) string {
	return fmt.Sprintf("%s:%s:%s:%s:%016x:%s", kind, g.ID, g.StartDate, g.EndDate, fingerprint, today)
}
