package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func days(start time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, start.AddDate(0, 0, i))
	}
	return out
}

func TestCalculate_EmptyLog(t *testing.T) {
	s := Calculate(nil, day(2024, time.June, 5))
	assert.Equal(t, 0, s.CurrentStreak)
	assert.Equal(t, 0, s.LongestStreak)
}

func TestCalculate_SingleEntryToday(t *testing.T) {
	today := day(2024, time.June, 5)
	s := Calculate([]time.Time{today}, today)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 1, s.LongestStreak)
}

func TestCalculate_FiveConsecutiveDays(t *testing.T) {
	// 2024-06-01..2024-06-05, reference 2024-06-05
	s := Calculate(days(day(2024, time.June, 1), 5), day(2024, time.June, 5))
	assert.Equal(t, 5, s.CurrentStreak)
	assert.Equal(t, 5, s.LongestStreak)
}

func TestCalculate_GapResetsRun(t *testing.T) {
	// 06-01, 06-02, gap, 06-05, 06-06, reference 06-06
	dates := []time.Time{
		day(2024, time.June, 1),
		day(2024, time.June, 2),
		day(2024, time.June, 5),
		day(2024, time.June, 6),
	}
	s := Calculate(dates, day(2024, time.June, 6))
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, 2, s.LongestStreak)
}

func TestCalculate_UnloggedTodaySurvives(t *testing.T) {
	// Streak run ends yesterday; today has no entry yet.
	dates := days(day(2024, time.June, 1), 4) // 06-01..06-04
	s := Calculate(dates, day(2024, time.June, 5))
	assert.Equal(t, 4, s.CurrentStreak)
	assert.Equal(t, 4, s.LongestStreak)
}

func TestCalculate_MissedFullDayBreaksStreak(t *testing.T) {
	// Last entry two days ago: the day in between was fully missed.
	dates := days(day(2024, time.June, 1), 3) // 06-01..06-03
	s := Calculate(dates, day(2024, time.June, 5))
	assert.Equal(t, 0, s.CurrentStreak)
	assert.Equal(t, 3, s.LongestStreak)
}

func TestCalculate_LongestInThePast(t *testing.T) {
	dates := append(days(day(2024, time.May, 1), 10), day(2024, time.June, 5))
	s := Calculate(dates, day(2024, time.June, 5))
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 10, s.LongestStreak)
}

func TestCalculate_LongestNeverBelowCurrent(t *testing.T) {
	today := day(2024, time.June, 30)
	dates := days(day(2024, time.June, 24), 7) // ends at today
	s := Calculate(dates, today)
	assert.Equal(t, 7, s.CurrentStreak)
	assert.GreaterOrEqual(t, s.LongestStreak, s.CurrentStreak)
}

func TestCalculate_IgnoresTimeComponent(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, time.June, 4, 13, 30, 0, 0, time.UTC),
		time.Date(2024, time.June, 5, 8, 0, 0, 0, time.UTC),
	}
	s := Calculate(dates, time.Date(2024, time.June, 5, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, 2, s.LongestStreak)
}
