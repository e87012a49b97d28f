package domain

import (
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
)

type LedgerKey struct {
	GoalID string
	Date   calendar.Date
}

// Ledger is a read-only snapshot of day records. A missing key means the day
// is not completed.
type Ledger struct {
	records map[LedgerKey]DayRecord
}

// NewLedger indexes records by (goal, date). Soft-deleted records are ignored
// and a later record replaces an earlier one with the same key.
func NewLedger(records ...DayRecord) Ledger {
	idx := make(map[LedgerKey]DayRecord, len(records))
	for _, r := range records {
		if r.DeletedAt != nil {
			continue
		}
		idx[LedgerKey{GoalID: r.GoalID, Date: r.Date}] = r
	}
	return Ledger{records: idx}
}

// LedgerFromPointers is a convenience for repository results.
func LedgerFromPointers(records []*DayRecord) Ledger {
	flat := make([]DayRecord, 0, len(records))
	for _, r := range records {
		if r != nil {
			flat = append(flat, *r)
		}
	}
	return NewLedger(flat...)
}

func (l Ledger) Get(goalID string, date calendar.Date) (DayRecord, bool) {
	r, ok := l.records[LedgerKey{GoalID: goalID, Date: date}]
	return r, ok
}

func (l Ledger) IsCompleted(goalID string, date calendar.Date) bool {
	r, ok := l.Get(goalID, date)
	return ok && r.IsCompleted
}

func (l Ledger) Len() int {
	return len(l.records)
}

// Records returns the goal's records in date order.
func (l Ledger) Records(goalID string) []DayRecord {
	var out []DayRecord
	for k, r := range l.records {
		if k.GoalID == goalID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Fingerprint digests the completion flags of one goal. Two ledgers with the
// same fingerprint produce the same statistics and grid for that goal.
func (l Ledger) Fingerprint(goalID string) uint64 {
	var completed []calendar.Date
	for k, r := range l.records {
		if k.GoalID == goalID && r.IsCompleted {
			completed = append(completed, k.Date)
		}
	}
	sort.Slice(completed, func(i, j int) bool {
		return completed[i].Before(completed[j])
	})

	d := xxhash.New()
	_, _ = d.WriteString(goalID)
	for _, date := range completed {
		_, _ = d.WriteString("|")
		_, _ = d.WriteString(date.String())
	}
	return d.Sum64()
}
