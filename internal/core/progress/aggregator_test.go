package progress

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
	"github.com/alecgard/dot-goal-journal/internal/core/domain"
)

const goalID = "goal-1"

func d(s string) calendar.Date {
	return calendar.MustParse(s)
}

func expand(t *testing.T, start, end string) []domain.Day {
	t.Helper()
	days, err := domain.ExpandRange(d(start), d(end))
	require.NoError(t, err)
	return days
}

func ledgerOf(done ...string) domain.Ledger {
	records := make([]domain.DayRecord, 0, len(done))
	for _, s := range done {
		records = append(records, domain.DayRecord{GoalID: goalID, Date: d(s), IsCompleted: true})
	}
	return domain.NewLedger(records...)
}

func allDates(days []domain.Day) []string {
	out := make([]string, len(days))
	for i, day := range days {
		out[i] = day.Date.String()
	}
	return out
}

func TestCompute_ThirtyDaysAllCompleted(t *testing.T) {
	days := expand(t, "2024-01-01", "2024-01-30")
	stats := Compute(goalID, days, ledgerOf(allDates(days)...), d("2024-01-30"))

	assert.Equal(t, 100, stats.Percentage)
	assert.Equal(t, 30, stats.CurrentStreak)
	assert.Equal(t, 30, stats.LongestStreak)
	assert.Equal(t, 30, stats.TotalDays)
	assert.Equal(t, 30, stats.TotalCompleted)
	assert.Equal(t, 0, stats.TotalMissed)
	assert.Equal(t, 100, stats.CompletionRate)
	assert.Equal(t, 100, stats.TimeElapsedPercentage)
	assert.Equal(t, 1, stats.DaysRemaining)
	assert.Equal(t, 30, stats.DaysElapsed)
	assert.False(t, stats.TodayPending)

	assert.Equal(t, 6.0, stats.AverageCompletionsPerWeek)
	assert.Equal(t, 7, stats.BestWeekCompletions)
	assert.Equal(t, "2024-W01", stats.BestWeekLabel, "First of the tied full weeks wins")
}

func TestCompute_UnmarkedDayAndPendingToday(t *testing.T) {
	days := expand(t, "2024-03-01", "2024-03-10")
	today := d("2024-03-10")

	t.Run("Only an unmarked record and today open: no streak", func(t *testing.T) {
		ledger := domain.NewLedger(domain.DayRecord{GoalID: goalID, Date: d("2024-03-05"), IsCompleted: false})
		stats := Compute(goalID, days, ledger, today)

		assert.Equal(t, 0, stats.CurrentStreak)
		assert.Equal(t, 0, stats.LongestStreak)
		assert.Equal(t, 9, stats.TotalMissed)
		assert.True(t, stats.TodayPending)
	})

	t.Run("Completing today counts back to the first open day", func(t *testing.T) {
		ledger := domain.NewLedger(
			domain.DayRecord{GoalID: goalID, Date: d("2024-03-05"), IsCompleted: false},
			domain.DayRecord{GoalID: goalID, Date: today, IsCompleted: true},
		)
		stats := Compute(goalID, days, ledger, today)

		assert.Equal(t, 1, stats.CurrentStreak)
		assert.Equal(t, 1, stats.LongestStreak)
		assert.False(t, stats.TodayPending)
	})

	t.Run("Open today does not break yesterday's run", func(t *testing.T) {
		ledger := ledgerOf("2024-03-06", "2024-03-07", "2024-03-08", "2024-03-09")
		stats := Compute(goalID, days, ledger, today)

		assert.Equal(t, 4, stats.CurrentStreak)
	})

	t.Run("An open yesterday breaks the streak", func(t *testing.T) {
		ledger := ledgerOf("2024-03-06", "2024-03-07", "2024-03-08", "2024-03-10")
		stats := Compute(goalID, days, ledger, today)

		assert.Equal(t, 1, stats.CurrentStreak)
		assert.Equal(t, 3, stats.LongestStreak)
	})
}

func TestCompute_MidGoal(t *testing.T) {
	days := expand(t, "2024-01-29", "2024-02-18")
	ledger := ledgerOf(
		"2024-01-29", "2024-01-30", "2024-01-31",
		"2024-02-02", "2024-02-03", "2024-02-04", "2024-02-05",
		"2024-02-08", "2024-02-09",
		"2024-02-12",
	)
	stats := Compute(goalID, days, ledger, d("2024-02-10"))

	assert.Equal(t, 21, stats.TotalDays)
	assert.Equal(t, 9, stats.TotalCompleted, "Completions after today are not counted")
	assert.Equal(t, 3, stats.TotalMissed)
	assert.True(t, stats.TodayPending)
	assert.Equal(t, 69, stats.Percentage)
	assert.Equal(t, 69, stats.CompletionRate)
	assert.Equal(t, 62, stats.TimeElapsedPercentage)
	assert.Equal(t, 9, stats.DaysRemaining)
	assert.Equal(t, 13, stats.DaysElapsed)
	assert.Equal(t, 2, stats.CurrentStreak)
	assert.Equal(t, 4, stats.LongestStreak)
	assert.Equal(t, 4.5, stats.AverageCompletionsPerWeek)
	assert.Equal(t, 6, stats.BestWeekCompletions)
	assert.Equal(t, "2024-W05", stats.BestWeekLabel)
}

func TestCompute_TodayOutsideRange(t *testing.T) {
	days := expand(t, "2024-03-01", "2024-03-10")

	t.Run("Before start", func(t *testing.T) {
		stats := Compute(goalID, days, ledgerOf(), d("2024-02-25"))

		assert.Equal(t, 0, stats.Percentage)
		assert.Equal(t, 0, stats.CompletionRate)
		assert.Equal(t, 0, stats.TimeElapsedPercentage)
		assert.Equal(t, 15, stats.DaysRemaining)
		assert.Equal(t, 0, stats.DaysElapsed)
		assert.Equal(t, 0, stats.TotalMissed)
		assert.False(t, stats.TodayPending)
		assert.Equal(t, 0.0, stats.AverageCompletionsPerWeek)
		assert.Empty(t, stats.BestWeekLabel)
	})

	t.Run("After end", func(t *testing.T) {
		ledger := ledgerOf(allDates(days[:9])...)
		stats := Compute(goalID, days, ledger, d("2024-04-01"))

		assert.Equal(t, 90, stats.Percentage)
		assert.Equal(t, 90, stats.CompletionRate)
		assert.Equal(t, 1, stats.TotalMissed)
		assert.Equal(t, 100, stats.TimeElapsedPercentage)
		assert.Equal(t, 0, stats.DaysRemaining)
		assert.Equal(t, 10, stats.DaysElapsed)
		assert.Equal(t, 0, stats.CurrentStreak, "The open last day is not today, so it is not skipped")
		assert.Equal(t, 9, stats.LongestStreak)
		assert.False(t, stats.TodayPending)
	})
}

func TestCompute_SingleDayGoal(t *testing.T) {
	days := expand(t, "2024-06-01", "2024-06-01")
	stats := Compute(goalID, days, ledgerOf("2024-06-01"), d("2024-06-01"))

	assert.Equal(t, 1, stats.TotalDays)
	assert.Equal(t, 100, stats.Percentage)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 100, stats.TimeElapsedPercentage)
}

func TestCompute_WeeksFollowISOYear(t *testing.T) {
	days := expand(t, "2024-12-30", "2025-01-05")
	stats := Compute(goalID, days, ledgerOf(allDates(days)...), d("2025-01-05"))

	assert.Equal(t, 7.0, stats.AverageCompletionsPerWeek)
	assert.Equal(t, "2025-W01", stats.BestWeekLabel)
}

func TestCompute_EmptyTimeline(t *testing.T) {
	stats := Compute(goalID, nil, ledgerOf(), d("2024-01-01"))
	assert.Equal(t, domain.DerivedStats{GoalID: goalID, Today: "2024-01-01"}, stats)
}

func TestCompute_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	days := expand(t, "2024-01-01", "2024-04-30")

	for i := 0; i < 200; i++ {
		var done []string
		for _, day := range days {
			if rng.Intn(3) > 0 {
				done = append(done, day.Date.String())
			}
		}
		ledger := ledgerOf(done...)
		today := days[0].Date.AddDays(rng.Intn(len(days)+20) - 10)

		stats := Compute(goalID, days, ledger, today)

		countable := 0
		for _, day := range days {
			if !day.Date.After(today) {
				countable++
			}
		}
		pending := 0
		if stats.TodayPending {
			pending = 1
		}

		assert.Equal(t, countable, stats.TotalCompleted+stats.TotalMissed+pending, "stat conservation (today %s)", today)
		assert.GreaterOrEqual(t, stats.LongestStreak, stats.CurrentStreak)
		assert.GreaterOrEqual(t, stats.CompletionRate, 0)
		assert.LessOrEqual(t, stats.CompletionRate, 100)
		assert.Equal(t, stats, Compute(goalID, days, ledger, today), "idempotence")
	}
}

func TestForGoal(t *testing.T) {
	g := &domain.Goal{ID: goalID, StartDate: d("2024-01-01"), EndDate: d("2024-01-03")}
	stats, err := ForGoal(g, ledgerOf("2024-01-01", "2024-01-02"), d("2024-01-02"))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CurrentStreak)
	assert.Equal(t, 3, stats.TotalDays)

	_, err = ForGoal(&domain.Goal{ID: goalID, StartDate: d("2024-01-03"), EndDate: d("2024-01-01")}, ledgerOf(), d("2024-01-02"))
	assert.ErrorIs(t, err, calendar.ErrInvalidDate)
}
