package calendar

import "time"

// Clock yields the current calendar day. Services hold one so tests can pin
// "today".
type Clock func() Date

func SystemClock(loc *time.Location) Clock {
	return func() Date { return TodayIn(loc) }
}

func FixedClock(d Date) Clock {
	return func() Date { return d }
}

// LoadLocation resolves an IANA zone name. An empty name means the process
// local zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
