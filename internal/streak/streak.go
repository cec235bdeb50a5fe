package streak

import "time"

// Stats holds the derived streak numbers for a single user. They are pure
// functions of the workout date set and the reference date, never stored.
type Stats struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// Calculate derives current and longest streak from the distinct dates a
// user has workouts on. dates must be sorted ascending, day granularity.
// today is the server-side reference date; an unlogged today does not break
// the current streak until the day is fully over, so the backward walk may
// start at yesterday.
func Calculate(dates []time.Time, today time.Time) Stats {
	if len(dates) == 0 {
		return Stats{}
	}

	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[dayKey(d)] = struct{}{}
	}

	today = truncateDay(today)

	start := today
	if _, ok := set[dayKey(today)]; !ok {
		start = today.AddDate(0, 0, -1)
	}

	current := 0
	for d := start; ; d = d.AddDate(0, 0, -1) {
		if _, ok := set[dayKey(d)]; !ok {
			break
		}
		current++
	}

	longest := 1
	run := 1
	for i := 1; i < len(dates); i++ {
		prev := truncateDay(dates[i-1])
		cur := truncateDay(dates[i])
		if cur.Equal(prev.AddDate(0, 0, 1)) {
			run++
		} else if !cur.Equal(prev) {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	return Stats{CurrentStreak: current, LongestStreak: longest}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
