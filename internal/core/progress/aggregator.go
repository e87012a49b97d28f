// Package progress derives completion statistics from a goal's expanded
// timeline and a ledger snapshot. Every function is pure: the same timeline,
// ledger and today always give the same result.
package progress

import (
	"fmt"
	"math"
	"sort"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
	"github.com/alecgard/dot-goal-journal/internal/core/domain"
)

// ForGoal expands the goal and computes its statistics.
func ForGoal(g *domain.Goal, ledger domain.Ledger, today calendar.Date) (domain.DerivedStats, error) {
	days, err := domain.ExpandGoal(g)
	if err != nil {
		return domain.DerivedStats{}, err
	}
	return Compute(g.ID, days, ledger, today), nil
}

// Compute expects days in ascending order as produced by domain.ExpandRange.
// Days after today are not countable and only contribute to TotalDays and the
// time-based figures.
func Compute(goalID string, days []domain.Day, ledger domain.Ledger, today calendar.Date) domain.DerivedStats {
	stats := domain.DerivedStats{
		GoalID:    goalID,
		Today:     today.String(),
		TotalDays: len(days),
	}
	if len(days) == 0 {
		return stats
	}

	start := days[0].Date
	end := days[len(days)-1].Date

	countable := days[:sort.Search(len(days), func(i int) bool {
		return days[i].Date.After(today)
	})]

	done := make([]bool, len(countable))
	pastDays := 0
	for i, day := range countable {
		done[i] = ledger.IsCompleted(goalID, day.Date)
		if done[i] {
			stats.TotalCompleted++
		}
		if day.Date.Before(today) {
			pastDays++
			if !done[i] {
				stats.TotalMissed++
			}
		}
	}

	todayInRange := !today.Before(start) && !today.After(end)
	stats.TodayPending = todayInRange && !ledger.IsCompleted(goalID, today)

	stats.Percentage = percent(stats.TotalCompleted, len(countable))

	denominator := pastDays
	if todayInRange {
		denominator++
	}
	stats.CompletionRate = percent(stats.TotalCompleted, denominator)

	fillTimeFigures(&stats, start, end, today)

	stats.CurrentStreak = currentStreak(countable, done, today)
	stats.LongestStreak = longestStreak(done)

	fillWeekly(&stats, countable, done)

	return stats
}

func fillTimeFigures(stats *domain.DerivedStats, start, end, today calendar.Date) {
	total := stats.TotalDays

	switch {
	case today.Before(start):
		stats.TimeElapsedPercentage = 0
	case today.After(end):
		stats.TimeElapsedPercentage = 100
	default:
		stats.TimeElapsedPercentage = clamp(percent(calendar.DaysBetween(start, today)+1, total), 0, 100)
	}

	stats.DaysRemaining = max(calendar.DaysBetween(today, end)+1, 0)
	stats.DaysElapsed = clamp(calendar.DaysBetween(start, today)+1, 0, total)
}

// currentStreak counts completed days backwards from the most recent countable
// day. An unfinished today is skipped once: the day is not over yet.
func currentStreak(countable []domain.Day, done []bool, today calendar.Date) int {
	i := len(countable) - 1
	if i >= 0 && countable[i].Date.Equal(today) && !done[i] {
		i--
	}

	streak := 0
	for ; i >= 0 && done[i]; i-- {
		streak++
	}
	return streak
}

func longestStreak(done []bool) int {
	longest, run := 0, 0
	for _, ok := range done {
		if !ok {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}
	return longest
}

type weekKey struct {
	year, week int
}

func (k weekKey) label() string {
	return fmt.Sprintf("%d-W%02d", k.year, k.week)
}

func fillWeekly(stats *domain.DerivedStats, countable []domain.Day, done []bool) {
	var order []weekKey
	counts := make(map[weekKey]int)

	for i, day := range countable {
		y, w := day.Date.ISOWeek()
		k := weekKey{year: y, week: w}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
			counts[k] = 0
		}
		if done[i] {
			counts[k]++
		}
	}

	if len(order) == 0 {
		return
	}

	sum := 0
	best := order[0]
	for _, k := range order {
		sum += counts[k]
		if counts[k] > counts[best] {
			best = k
		}
	}

	stats.AverageCompletionsPerWeek = math.Round(float64(sum)/float64(len(order))*10) / 10
	stats.BestWeekCompletions = counts[best]
	stats.BestWeekLabel = best.label()
}

func percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(total)))
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
