// Package grid lays a goal's timeline out as month rows of Monday-based
// weeks. It copies completion flags from the ledger and takes no decisions
// about them; statistics are computed elsewhere on the flat timeline.
package grid

import (
	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
	"github.com/alecgard/dot-goal-journal/internal/core/domain"
)

// MinColumns is the narrowest grid: every month touches at least five weeks.
const MinColumns = 5

type monthKey struct {
	year  int
	month int
}

func keyOf(d calendar.Date) monthKey {
	return monthKey{year: d.Year(), month: int(d.Month())}
}

type week struct {
	monday calendar.Date
	cells  [7]domain.DayCell
}

// ForGoal expands the goal and builds its grid.
func ForGoal(g *domain.Goal, ledger domain.Ledger, today calendar.Date) (domain.Grid, error) {
	days, err := domain.ExpandGoal(g)
	if err != nil {
		return domain.Grid{}, err
	}
	return Build(g.ID, days, ledger, today), nil
}

// Build expects days in ascending order as produced by domain.ExpandRange.
func Build(goalID string, days []domain.Day, ledger domain.Ledger, today calendar.Date) domain.Grid {
	if len(days) == 0 {
		return domain.Grid{ColumnNumbers: columnNumbers(MinColumns), Rows: []domain.MonthRow{}}
	}

	weeks := partition(goalID, days, ledger, today)
	rows, rowIndex := monthRows(days[0].Date, days[len(days)-1].Date)

	placed := make([][]*domain.WeekBucket, len(rows))
	maxColumn := -1

	for _, w := range weeks {
		thursday := w.monday.AddDays(3)
		owning := keyOf(thursday)
		primaryIndex := weekOfMonth(w.monday, thursday.FirstOfMonth())

		for _, first := range w.months() {
			bucket := &domain.WeekBucket{
				WeekStart:        w.monday,
				Days:             w.maskedTo(first),
				OwningMonth:      thursday.Month(),
				OwningYear:       thursday.Year(),
				WeekOfMonthIndex: primaryIndex,
				Column:           columnIn(w.monday, first),
				Primary:          keyOf(first) == owning,
			}
			if bucket.Column > maxColumn {
				maxColumn = bucket.Column
			}

			i := rowIndex[keyOf(first)]
			placed[i] = append(placed[i], bucket)
		}
	}

	width := max(maxColumn+1, MinColumns)
	for i := range rows {
		rows[i].Cells = make([]*domain.WeekBucket, width)
		for _, b := range placed[i] {
			rows[i].Cells[b.Column] = b
		}
	}

	return domain.Grid{ColumnNumbers: columnNumbers(width), Rows: rows}
}

// partition groups the days into Monday-keyed weeks. Weekdays of a boundary
// week that are outside the goal stay out-of-range placeholders.
func partition(goalID string, days []domain.Day, ledger domain.Ledger, today calendar.Date) []*week {
	var weeks []*week
	var current *week

	for _, day := range days {
		monday := calendar.MondayOf(day.Date)
		if current == nil || !current.monday.Equal(monday) {
			current = &week{monday: monday}
			weeks = append(weeks, current)
		}

		current.cells[calendar.DayOfWeekIndex(day.Date)] = domain.DayCell{
			Kind:            domain.CellDay,
			Date:            day.Date,
			IsCompleted:     ledger.IsCompleted(goalID, day.Date),
			IsFuture:        day.Date.IsFuture(today),
			IsToday:         day.Date.IsToday(today),
			IsLastDayOfGoal: day.IsLastDayOfGoal,
		}
	}

	return weeks
}

// months lists the first day of every month holding a real day of the week,
// in calendar order.
func (w *week) months() []calendar.Date {
	var out []calendar.Date
	for _, c := range w.cells {
		if c.Kind != domain.CellDay {
			continue
		}
		first := c.Date.FirstOfMonth()
		if len(out) == 0 || !out[len(out)-1].Equal(first) {
			out = append(out, first)
		}
	}
	return out
}

// maskedTo returns the week's cells with real days of other months swapped
// for out-of-month placeholders.
func (w *week) maskedTo(first calendar.Date) [7]domain.DayCell {
	cells := w.cells
	for i, c := range cells {
		if c.Kind == domain.CellDay && !c.Date.SameMonth(first) {
			cells[i] = domain.DayCell{Kind: domain.CellOutOfMonth}
		}
	}
	return cells
}

// weekOfMonth counts Mondays from the first week whose Thursday lies in the
// month starting at first.
func weekOfMonth(monday, first calendar.Date) int {
	firstThursday := first.AddDays((3 - calendar.DayOfWeekIndex(first) + 7) % 7)
	return calendar.DaysBetween(firstThursday.AddDays(-3), monday) / 7
}

// columnIn counts Mondays from the week holding the 1st of the month, so a
// week spilling in from the previous month takes column 0.
func columnIn(monday, first calendar.Date) int {
	return calendar.DaysBetween(calendar.MondayOf(first), monday) / 7
}

func monthRows(start, end calendar.Date) ([]domain.MonthRow, map[monthKey]int) {
	var rows []domain.MonthRow
	index := make(map[monthKey]int)

	last := end.FirstOfMonth()
	for m := start.FirstOfMonth(); !m.After(last); m = m.AddMonths(1) {
		index[keyOf(m)] = len(rows)
		rows = append(rows, domain.MonthRow{
			MonthLabel: m.Month().String()[:3],
			Month:      m.Month(),
			Year:       m.Year(),
		})
	}
	return rows, index
}

func columnNumbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
