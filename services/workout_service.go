package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workoutCalendarAPI/internal/calendar"
	"workoutCalendarAPI/internal/stats"
	"workoutCalendarAPI/internal/streak"
	"workoutCalendarAPI/internal/workout"
)

type WorkoutService struct {
	db     *pgxpool.Pool
	photos *PhotoService
}

func NewWorkoutService(db *pgxpool.Pool, photos *PhotoService) *WorkoutService {
	return &WorkoutService{db: db, photos: photos}
}

// Today is the server-side reference date, UTC day granularity. Clients never
// pick it; streak windows and the today-only mutation rule both key off it.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Record logs a workout for date. Only today's date is accepted, and at most
// one entry may exist per (user, date); the unique constraint on the table
// makes the check race-free under concurrent requests.
func (s *WorkoutService) Record(ctx context.Context, userID uuid.UUID, date time.Time, imageURL string, notes *string) (*workout.Entry, error) {
	if !sameDay(date, Today()) {
		return nil, ErrInvalidDate
	}

	entry := &workout.Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      date,
		ImageURL:  imageURL,
		Notes:     notes,
		CreatedAt: time.Now(),
	}

	query := `
	INSERT INTO workouts (id, user_id, date, image_url, notes, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (user_id, date) DO NOTHING
	RETURNING id, user_id, date, image_url, notes, created_at
	`

	err := s.db.QueryRow(ctx, query, entry.ID, entry.UserID, entry.Date, entry.ImageURL, entry.Notes, entry.CreatedAt).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Date,
		&entry.ImageURL,
		&entry.Notes,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to log workout: %w", err)
	}

	entry.DateStr = entry.Date.Format(workout.DateFormat)
	return entry, nil
}

// Remove deletes the entry for (user, date) and its stored photo. Like
// Record, it only accepts today's date; history stays immutable.
func (s *WorkoutService) Remove(ctx context.Context, userID uuid.UUID, date time.Time) error {
	if !sameDay(date, Today()) {
		return ErrInvalidDate
	}

	var imageURL string
	query := `
	DELETE FROM workouts
	WHERE user_id = $1 AND date = $2
	RETURNING image_url
	`

	err := s.db.QueryRow(ctx, query, userID, date).Scan(&imageURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: no workout logged for that date", ErrNotFound)
		}
		return fmt.Errorf("failed to remove workout: %w", err)
	}

	if err := s.photos.Delete(imageURL); err != nil {
		// Row is gone; the orphaned file is picked up by the upload sweeper.
		return nil
	}

	return nil
}

// Entries returns all of a user's workouts ordered by date ascending.
func (s *WorkoutService) Entries(ctx context.Context, userID uuid.UUID) ([]*workout.Entry, error) {
	query := `
	SELECT id, user_id, date, image_url, notes, created_at
	FROM workouts
	WHERE user_id = $1
	ORDER BY date
	`
	return s.queryEntries(ctx, query, userID)
}

// EntriesForMonth filters Entries to one calendar month.
func (s *WorkoutService) EntriesForMonth(ctx context.Context, userID uuid.UUID, year int, month int) ([]*workout.Entry, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month out of range", ErrInvalidArgument)
	}

	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, -1)

	query := `
	SELECT id, user_id, date, image_url, notes, created_at
	FROM workouts
	WHERE user_id = $1
		AND date >= $2
		AND date <= $3
	ORDER BY date
	`
	return s.queryEntries(ctx, query, userID, startDate, endDate)
}

// Streaks computes the user's streak stats as of today. The numbers are
// derived from the entry dates on every read, never stored.
func (s *WorkoutService) Streaks(ctx context.Context, userID uuid.UUID) (*streak.Stats, error) {
	dates, err := s.entryDates(ctx, userID)
	if err != nil {
		return nil, err
	}

	st := streak.Calculate(dates, Today())
	return &st, nil
}

// Calendar builds the month grid for the given year/month.
func (s *WorkoutService) Calendar(ctx context.Context, userID uuid.UUID, year int, month int) (*calendar.Response, error) {
	entries, err := s.EntriesForMonth(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}

	logged := make(map[string]bool, len(entries))
	for _, e := range entries {
		logged[e.Date.Format(workout.DateFormat)] = true
	}

	return calendar.BuildMonth(year, month, logged, Today()), nil
}

// Stats aggregates today status, period day counts and streaks in one read.
func (s *WorkoutService) Stats(ctx context.Context, userID uuid.UUID) (*stats.UserStats, error) {
	query := `
	SELECT
		COALESCE(COUNT(*) FILTER (WHERE date = CURRENT_DATE), 0) as today,
		COALESCE(COUNT(*) FILTER (WHERE date >= DATE_TRUNC('week', CURRENT_DATE)), 0) as days_this_week,
		COALESCE(COUNT(*) FILTER (WHERE date >= DATE_TRUNC('month', CURRENT_DATE)), 0) as days_this_month,
		COALESCE(COUNT(*) FILTER (WHERE date >= DATE_TRUNC('year', CURRENT_DATE)), 0) as days_this_year,
		COUNT(*) as total_workouts
	FROM workouts
	WHERE user_id = $1 AND date <= CURRENT_DATE
	`

	userStats := &stats.UserStats{}
	var today int
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&today,
		&userStats.DaysThisWeek,
		&userStats.DaysThisMonth,
		&userStats.DaysThisYear,
		&userStats.TotalWorkouts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	userStats.TodayLogged = today > 0

	st, err := s.Streaks(ctx, userID)
	if err != nil {
		return nil, err
	}
	userStats.CurrentStreak = st.CurrentStreak
	userStats.LongestStreak = st.LongestStreak

	return userStats, nil
}

// PeriodStat counts workout days inside one period ("week", "month", "year"
// or "all_time").
func (s *WorkoutService) PeriodStat(ctx context.Context, userID uuid.UUID, period string) (*stats.DaysStat, error) {
	now := time.Now().UTC()

	var trunc string
	stat := &stats.DaysStat{Period: period}
	switch period {
	case "week":
		trunc = "week"
		stat.TotalDays = 7
	case "month":
		trunc = "month"
		stat.TotalDays = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
	case "year":
		trunc = "year"
		stat.TotalDays = 365
		if now.Year()%4 == 0 && (now.Year()%100 != 0 || now.Year()%400 == 0) {
			stat.TotalDays = 366
		}
	case "all_time":
		query := `
		SELECT COUNT(*), COALESCE(CURRENT_DATE - MIN(date) + 1, 0)
		FROM workouts
		WHERE user_id = $1
		`
		err := s.db.QueryRow(ctx, query, userID).Scan(&stat.DaysWorked, &stat.TotalDays)
		if err != nil {
			return nil, fmt.Errorf("failed to get all time stats: %w", err)
		}
		return stat, nil
	default:
		return nil, fmt.Errorf("%w: unknown period %q", ErrInvalidArgument, period)
	}

	query := fmt.Sprintf(`
	SELECT COUNT(*)
	FROM workouts
	WHERE user_id = $1
		AND date >= DATE_TRUNC('%s', CURRENT_DATE)
		AND date <= CURRENT_DATE
	`, trunc)

	if err := s.db.QueryRow(ctx, query, userID).Scan(&stat.DaysWorked); err != nil {
		return nil, fmt.Errorf("failed to get %s stats: %w", period, err)
	}

	return stat, nil
}

func (s *WorkoutService) queryEntries(ctx context.Context, query string, args ...any) ([]*workout.Entry, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workouts: %w", err)
	}
	defer rows.Close()

	var entries []*workout.Entry
	for rows.Next() {
		entry := &workout.Entry{}
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Date,
			&entry.ImageURL,
			&entry.Notes,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workout: %w", err)
		}
		entry.DateStr = entry.Date.Format(workout.DateFormat)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read workouts: %w", err)
	}

	return entries, nil
}

func (s *WorkoutService) entryDates(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	query := `
	SELECT date
	FROM workouts
	WHERE user_id = $1
	ORDER BY date
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workout dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read workout dates: %w", err)
	}

	return dates, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
