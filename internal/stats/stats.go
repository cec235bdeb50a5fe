package stats

type DaysStat struct {
	Period     string `json:"period"` // "week", "month", "year", "all_time"
	DaysWorked int    `json:"days_worked_out" db:"days_worked_out"`
	TotalDays  int    `json:"total_days"`
}

type UserStats struct {
	TodayLogged   bool `json:"today_logged"`
	DaysThisWeek  int  `json:"days_this_week"`
	DaysThisMonth int  `json:"days_this_month"`
	DaysThisYear  int  `json:"days_this_year"`
	TotalWorkouts int  `json:"total_workouts"`
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
}
