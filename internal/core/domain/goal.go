package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
)

var (
	ErrGoalTitleEmpty    = errors.New("goal title cannot be empty")
	ErrGoalTitleTooLong  = errors.New("goal title is too long (max 100 chars)")
	ErrGoalDescTooLong   = errors.New("goal description is too long (max 500 chars)")
	ErrGoalInvalidUserID = errors.New("invalid user id")
	ErrInvalidColor      = errors.New("invalid color format (must be #RRGGBB)")
	ErrGoalTooLong       = errors.New("goal is too long (max 3660 days)")
	ErrGoalArchived      = errors.New("cannot update an archived goal")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	DefaultColor = "#4CAF50"
	MaxTitleLen  = 100
	MaxDescLen   = 500
	MaxGoalDays  = 3660
)

type Goal struct {
	ID          string        `json:"id" db:"id"`
	UserID      string        `json:"user_id" db:"user_id"`
	Title       string        `json:"title" db:"title"`
	Description string        `json:"description,omitempty" db:"description"`
	Color       string        `json:"color" db:"color"`
	SortOrder   int           `json:"sort_order" db:"sort_order"`
	StartDate   calendar.Date `json:"start_date" db:"start_date"`
	EndDate     calendar.Date `json:"end_date" db:"end_date"`
	IsArchived  bool          `json:"is_archived" db:"is_archived"`
	IsCompleted bool          `json:"is_completed" db:"is_completed"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func validateGoal(title, desc, color string, start, end calendar.Date) error {
	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" {
		return ErrGoalTitleEmpty
	}
	if len(trimmedTitle) > MaxTitleLen {
		return ErrGoalTitleTooLong
	}

	if len(strings.TrimSpace(desc)) > MaxDescLen {
		return ErrGoalDescTooLong
	}

	if color != "" && !colorRegex.MatchString(color) {
		return ErrInvalidColor
	}

	return validateSpan(start, end)
}

// validateSpan applies the same rules ExpandRange enforces, so a stored goal
// can always be expanded.
func validateSpan(start, end calendar.Date) error {
	if start.IsZero() || end.IsZero() {
		return &calendar.InvalidDateError{Reason: "goal start and end dates are required"}
	}
	if start.After(end) {
		return &calendar.InvalidDateError{Input: start.String(), Reason: "start date is after end date " + end.String()}
	}
	if calendar.DaysBetween(start, end)+1 > MaxGoalDays {
		return ErrGoalTooLong
	}
	return nil
}

func NewGoal(userID, title, description, color string, start, end calendar.Date) (*Goal, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrGoalInvalidUserID
	}

	cleanDesc := strings.TrimSpace(description)
	if err := validateGoal(title, cleanDesc, color, start, end); err != nil {
		return nil, err
	}

	if color == "" {
		color = DefaultColor
	}

	now := time.Now().UTC()

	return &Goal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: cleanDesc,
		Color:       color,
		StartDate:   start,
		EndDate:     end,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (g *Goal) Update(title, description, color string, start, end calendar.Date) error {
	if g.IsArchived {
		return ErrGoalArchived
	}

	cleanDesc := strings.TrimSpace(description)
	if err := validateGoal(title, cleanDesc, color, start, end); err != nil {
		return err
	}

	if color == "" {
		color = DefaultColor
	}

	g.Title = strings.TrimSpace(title)
	g.Description = cleanDesc
	g.Color = color
	g.StartDate = start
	g.EndDate = end
	g.UpdatedAt = time.Now().UTC()

	return nil
}

// TotalDays is the inclusive length of the goal.
func (g *Goal) TotalDays() int {
	if g.StartDate.IsZero() || g.EndDate.IsZero() || g.StartDate.After(g.EndDate) {
		return 0
	}
	return calendar.DaysBetween(g.StartDate, g.EndDate) + 1
}

func (g *Goal) Contains(d calendar.Date) bool {
	return !d.Before(g.StartDate) && !d.After(g.EndDate)
}

func (g *Goal) ChangePosition(newOrder int) error {
	if g.IsArchived {
		return ErrGoalArchived
	}

	g.SortOrder = newOrder
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (g *Goal) Archive() {
	if g.IsArchived {
		return
	}
	g.IsArchived = true
	g.UpdatedAt = time.Now().UTC()
}

func (g *Goal) Restore() {
	if !g.IsArchived {
		return
	}
	g.IsArchived = false
	g.UpdatedAt = time.Now().UTC()
}

func (g *Goal) MarkCompleted() {
	if g.IsCompleted {
		return
	}
	g.IsCompleted = true
	g.UpdatedAt = time.Now().UTC()
}

func (g *Goal) Reopen() {
	if !g.IsCompleted {
		return
	}
	g.IsCompleted = false
	g.UpdatedAt = time.Now().UTC()
}
