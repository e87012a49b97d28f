package domain

import (
	"fmt"
	"time"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
)

type CellKind int

const (
	// CellOutOfRange is a weekday of a boundary week that lies outside the goal.
	CellOutOfRange CellKind = iota
	// CellDay is a real day of the goal.
	CellDay
	// CellOutOfMonth masks a real day that belongs to a different month row.
	CellOutOfMonth
)

var cellKindNames = map[CellKind]string{
	CellOutOfRange: "out_of_range",
	CellDay:        "day",
	CellOutOfMonth: "out_of_month",
}

func (k CellKind) String() string {
	if name, ok := cellKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CellKind(%d)", int(k))
}

func (k CellKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *CellKind) UnmarshalText(b []byte) error {
	for kind, name := range cellKindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown cell kind %q", string(b))
}

// DayCell is one slot of a week. Placeholders carry no date.
type DayCell struct {
	Kind            CellKind      `json:"kind"`
	Date            calendar.Date `json:"date"`
	IsCompleted     bool          `json:"is_completed"`
	IsFuture        bool          `json:"is_future"`
	IsToday         bool          `json:"is_today"`
	IsLastDayOfGoal bool          `json:"is_last_day_of_goal"`
}

func (c DayCell) IsPlaceholder() bool {
	return c.Kind != CellDay
}

// WeekBucket is a Monday-to-Sunday week as rendered in one month row.
// OwningMonth/OwningYear and WeekOfMonthIndex follow the Thursday rule;
// Column is the position inside the row the copy is rendered in.
type WeekBucket struct {
	WeekStart        calendar.Date `json:"week_start"`
	Days             [7]DayCell    `json:"days"`
	OwningMonth      time.Month    `json:"owning_month"`
	OwningYear       int           `json:"owning_year"`
	WeekOfMonthIndex int           `json:"week_of_month_index"`
	Column           int           `json:"column"`
	Primary          bool          `json:"primary"`
}

// RealDays counts the non-placeholder cells.
func (w *WeekBucket) RealDays() int {
	n := 0
	for _, c := range w.Days {
		if !c.IsPlaceholder() {
			n++
		}
	}
	return n
}

type MonthRow struct {
	MonthLabel string        `json:"month_label"`
	Month      time.Month    `json:"month"`
	Year       int           `json:"year"`
	Cells      []*WeekBucket `json:"cells"`
}

type Grid struct {
	ColumnNumbers []int      `json:"column_numbers"`
	Rows          []MonthRow `json:"rows"`
}
