// Package calendar provides a calendar-day value type with no time-of-day and
// no zone. Dates print and parse as YYYY-MM-DD and are compared by day only.
package calendar

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

const Layout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// InvalidDateError reports a string that is not a calendar date or a range
// whose start is after its end.
type InvalidDateError struct {
	Input  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("invalid date: %s", e.Reason)
	}
	return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
}

func (e *InvalidDateError) Unwrap() error {
	return ErrInvalidDate
}

// Date is a single calendar day. The zero value means "no date".
// Internally it is midnight UTC so that == and day arithmetic are exact.
type Date struct {
	t time.Time
}

func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime returns the calendar day of t as observed in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return New(y, m, d)
}

// Today reads the process clock in the local zone. Only edges of the program
// call it; the engine always receives today as a parameter.
func Today() Date {
	return FromTime(time.Now())
}

func TodayIn(loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return FromTime(time.Now().In(loc))
}

func Parse(s string) (Date, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Date{}, &InvalidDateError{Input: s, Reason: "empty"}
	}
	if len(trimmed) != len(Layout) {
		return Date{}, &InvalidDateError{Input: s, Reason: "expected YYYY-MM-DD"}
	}
	t, err := time.Parse(Layout, trimmed)
	if err != nil {
		return Date{}, &InvalidDateError{Input: s, Reason: "not a calendar date"}
	}
	return Date{t: t}, nil
}

func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(Layout)
}

func (d Date) Year() int { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int {
	switch {
	case d.t.Before(o.t):
		return -1
	case d.t.After(o.t):
		return 1
	default:
		return 0
	}
}

func (d Date) IsPast(today Date) bool { return d.Before(today) }
func (d Date) IsToday(today Date) bool { return d.Equal(today) }
func (d Date) IsFuture(today Date) bool { return d.After(today) }

func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) FirstOfMonth() Date {
	return New(d.Year(), d.Month(), 1)
}

// AddMonths moves the first of d's month by n months.
func (d Date) AddMonths(n int) Date {
	return Date{t: d.FirstOfMonth().t.AddDate(0, n, 0)}
}

// SameMonth reports whether both days fall in the same year and month.
func (d Date) SameMonth(o Date) bool {
	return d.Year() == o.Year() && d.Month() == o.Month()
}

func (d Date) ISOWeek() (year, week int) {
	return d.t.ISOWeek()
}

// DaysBetween returns b - a in whole days.
func DaysBetween(a, b Date) int {
	return int(b.t.Sub(a.t).Hours() / 24)
}

// DayOfWeekIndex maps Monday to 0 and Sunday to 6.
func DayOfWeekIndex(d Date) int {
	return (int(d.Weekday()) + 6) % 7
}

func MondayOf(d Date) Date {
	return d.AddDays(-DayOfWeekIndex(d))
}

// Thursday returns the Thursday of d's Monday-based week.
func Thursday(d Date) Date {
	return MondayOf(d).AddDays(3)
}

// Range returns every day from start to end inclusive.
func Range(start, end Date) ([]Date, error) {
	if start.IsZero() || end.IsZero() {
		return nil, &InvalidDateError{Reason: "range bounds must be set"}
	}
	if start.After(end) {
		return nil, &InvalidDateError{
			Input:  start.String(),
			Reason: fmt.Sprintf("start is after end %s", end),
		}
	}

	out := make([]Date, 0, DaysBetween(start, end)+1)
	for cur := start; !cur.After(end); cur = cur.AddDays(1) {
		out = append(out, cur)
	}
	return out, nil
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the day as a DATE-compatible time.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.t, nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = FromTime(v)
		return nil
	case string:
		return d.UnmarshalText([]byte(v))
	case []byte:
		return d.UnmarshalText(v)
	default:
		return fmt.Errorf("calendar: cannot scan %T into Date", src)
	}
}
