package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alecgard/dot-goal-journal/internal/core/domain"
)

func completed(goalID, date string) domain.DayRecord {
	return domain.DayRecord{GoalID: goalID, Date: d(date), IsCompleted: true}
}

func TestLedger(t *testing.T) {
	deletedAt := time.Now().UTC()

	ledger := domain.NewLedger(
		completed("g1", "2024-01-02"),
		completed("g1", "2024-01-01"),
		domain.DayRecord{GoalID: "g1", Date: d("2024-01-03"), IsCompleted: false, Note: "rest day"},
		domain.DayRecord{GoalID: "g1", Date: d("2024-01-04"), IsCompleted: true, DeletedAt: &deletedAt},
		completed("g2", "2024-01-01"),
	)

	t.Run("Missing record means not completed", func(t *testing.T) {
		assert.False(t, ledger.IsCompleted("g1", d("2024-01-05")))
		_, ok := ledger.Get("g1", d("2024-01-05"))
		assert.False(t, ok)
	})

	t.Run("Lookups are scoped by goal", func(t *testing.T) {
		assert.True(t, ledger.IsCompleted("g1", d("2024-01-01")))
		assert.True(t, ledger.IsCompleted("g2", d("2024-01-01")))
		assert.False(t, ledger.IsCompleted("g2", d("2024-01-02")))
	})

	t.Run("Soft-deleted records are ignored", func(t *testing.T) {
		assert.False(t, ledger.IsCompleted("g1", d("2024-01-04")))
		assert.Equal(t, 4, ledger.Len())
	})

	t.Run("Records are returned in date order", func(t *testing.T) {
		recs := ledger.Records("g1")
		if assert.Len(t, recs, 3) {
			assert.Equal(t, "2024-01-01", recs[0].Date.String())
			assert.Equal(t, "2024-01-03", recs[2].Date.String())
			assert.Equal(t, "rest day", recs[2].Note)
		}
	})

	t.Run("Later record wins for the same key", func(t *testing.T) {
		l := domain.NewLedger(
			completed("g1", "2024-01-01"),
			domain.DayRecord{GoalID: "g1", Date: d("2024-01-01"), IsCompleted: false},
		)
		assert.False(t, l.IsCompleted("g1", d("2024-01-01")))
	})

	t.Run("Pointer constructor skips nils", func(t *testing.T) {
		r := completed("g1", "2024-01-01")
		l := domain.LedgerFromPointers([]*domain.DayRecord{nil, &r})
		assert.Equal(t, 1, l.Len())
	})
}

func TestLedger_Fingerprint(t *testing.T) {
	a := domain.NewLedger(completed("g1", "2024-01-01"), completed("g1", "2024-01-02"), completed("g2", "2024-01-09"))
	b := domain.NewLedger(
		completed("g1", "2024-01-02"),
		domain.DayRecord{GoalID: "g1", Date: d("2024-01-03"), Note: "notes do not matter"},
		completed("g1", "2024-01-01"),
	)
	c := domain.NewLedger(completed("g1", "2024-01-01"))

	assert.Equal(t, a.Fingerprint("g1"), b.Fingerprint("g1"), "Order, notes and other goals do not change the fingerprint")
	assert.NotEqual(t, a.Fingerprint("g1"), c.Fingerprint("g1"))
	assert.NotEqual(t, a.Fingerprint("g1"), a.Fingerprint("g2"))
	assert.Equal(t, domain.NewLedger().Fingerprint("g1"), domain.NewLedger().Fingerprint("g1"))
}
