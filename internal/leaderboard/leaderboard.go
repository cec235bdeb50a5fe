package leaderboard

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"workoutCalendarAPI/internal/streak"
)

type Entry struct {
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Username      string    `json:"username" db:"username"`
	Rank          int       `json:"rank"`
	TotalWorkouts int       `json:"total_workouts"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
}

// UserLog is one user's full workout date set, dates sorted ascending.
type UserLog struct {
	UserID   uuid.UUID
	Username string
	Dates    []time.Time
}

// Rank builds the monthly leaderboard for the month containing today.
// TotalWorkouts counts entries inside that month; streaks run over the full
// log. Ordering is total workouts desc, current streak desc, longest streak
// desc, then user id ascending, so identical inputs always produce identical
// output. Every user gets a distinct dense rank; users with no activity this
// month are still listed.
func Rank(logs []UserLog, today time.Time) []*Entry {
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	entries := make([]*Entry, 0, len(logs))
	for _, l := range logs {
		monthly := 0
		for _, d := range l.Dates {
			if !d.Before(monthStart) && d.Before(monthEnd) {
				monthly++
			}
		}
		st := streak.Calculate(l.Dates, today)
		entries = append(entries, &Entry{
			UserID:        l.UserID,
			Username:      l.Username,
			TotalWorkouts: monthly,
			CurrentStreak: st.CurrentStreak,
			LongestStreak: st.LongestStreak,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TotalWorkouts != b.TotalWorkouts {
			return a.TotalWorkouts > b.TotalWorkouts
		}
		if a.CurrentStreak != b.CurrentStreak {
			return a.CurrentStreak > b.CurrentStreak
		}
		if a.LongestStreak != b.LongestStreak {
			return a.LongestStreak > b.LongestStreak
		}
		return a.UserID.String() < b.UserID.String()
	})

	for i, e := range entries {
		e.Rank = i + 1
	}

	return entries
}
