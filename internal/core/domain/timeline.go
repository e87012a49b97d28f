package domain

import (
	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
)

// Day is one element of a goal's expanded timeline.
type Day struct {
	Date            calendar.Date `json:"date"`
	IsLastDayOfGoal bool          `json:"is_last_day_of_goal"`
}

// ExpandRange lists every day from start to end inclusive and flags the last
// one. It depends on nothing but its arguments. Invalid bounds return the
// calendar.InvalidDateError unchanged.
func ExpandRange(start, end calendar.Date) ([]Day, error) {
	if !start.IsZero() && !end.IsZero() && calendar.DaysBetween(start, end)+1 > MaxGoalDays {
		return nil, ErrGoalTooLong
	}

	dates, err := calendar.Range(start, end)
	if err != nil {
		return nil, err
	}

	days := make([]Day, len(dates))
	for i, d := range dates {
		days[i] = Day{Date: d}
	}
	days[len(days)-1].IsLastDayOfGoal = true

	return days, nil
}

func ExpandGoal(g *Goal) ([]Day, error) {
	return ExpandRange(g.StartDate, g.EndDate)
}
