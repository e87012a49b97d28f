package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
)

var (
	ErrInvalidRecord   = errors.New("invalid day record data")
	ErrNoteTooLong     = errors.New("note is too long (max 1000 chars)")
	ErrDateOutsideGoal = errors.New("date is outside the goal range")
	ErrFutureDate      = errors.New("cannot complete a day in the future")
)

const MaxNoteLen = 1000

// DayRecord is the ledger entry for one goal on one calendar day.
type DayRecord struct {
	ID     string        `json:"id" db:"id"`
	GoalID string        `json:"goal_id" db:"goal_id"`
	UserID string        `json:"user_id" db:"user_id"`
	Date   calendar.Date `json:"date" db:"date"`

	IsCompleted bool       `json:"is_completed" db:"is_completed"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	Note        string     `json:"note" db:"note"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewDayRecord(goalID, userID string, date calendar.Date) *DayRecord {
	now := time.Now().UTC()

	return &DayRecord{
		GoalID:    goalID,
		UserID:    userID,
		Date:      date,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetCompleted stamps CompletedAt when the flag turns on and clears it when it
// turns off. Setting the same value again keeps the original stamp.
func (r *DayRecord) SetCompleted(completed bool, at time.Time) {
	if r.IsCompleted == completed {
		return
	}

	r.IsCompleted = completed
	if completed {
		stamp := at.UTC()
		r.CompletedAt = &stamp
	} else {
		r.CompletedAt = nil
	}
	r.UpdatedAt = time.Now().UTC()
}

func (r *DayRecord) Toggle(at time.Time) {
	r.SetCompleted(!r.IsCompleted, at)
}

func (r *DayRecord) SetNote(note string) error {
	clean := strings.TrimSpace(note)
	if utf8.RuneCountInString(clean) > MaxNoteLen {
		return ErrNoteTooLong
	}
	r.Note = clean
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *DayRecord) Validate() error {
	if strings.TrimSpace(r.GoalID) == "" {
		return errors.New("goal_id is required")
	}
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if r.Date.IsZero() {
		return errors.New("date is required")
	}
	if utf8.RuneCountInString(r.Note) > MaxNoteLen {
		return ErrNoteTooLong
	}
	return nil
}
