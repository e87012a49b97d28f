package domain

// DerivedStats is recomputed from the timeline and ledger on every call.
type DerivedStats struct {
	GoalID string `json:"goal_id"`
	Today  string `json:"today"`

	Percentage            int `json:"percentage"`
	TimeElapsedPercentage int `json:"time_elapsed_percentage"`
	DaysRemaining         int `json:"days_remaining"`
	DaysElapsed           int `json:"days_elapsed"`

	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`

	CompletionRate int  `json:"completion_rate"`
	TotalCompleted int  `json:"total_completed"`
	TotalMissed    int  `json:"total_missed"`
	TotalDays      int  `json:"total_days"`
	TodayPending   bool `json:"today_pending"`

	AverageCompletionsPerWeek float64 `json:"average_completions_per_week"`
	BestWeekCompletions       int     `json:"best_week_completions"`
	BestWeekLabel             string  `json:"best_week_label"`
}

// GoalSummary pairs a goal with its statistics for list views.
type GoalSummary struct {
	Goal  *Goal        `json:"goal"`
	Stats DerivedStats `json:"stats"`
}
