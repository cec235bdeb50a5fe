package integration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workoutCalendarAPI/handlers"
	"workoutCalendarAPI/internal/leaderboard"
	"workoutCalendarAPI/internal/user"
	"workoutCalendarAPI/middleware"
	"workoutCalendarAPI/services"
	"workoutCalendarAPI/tests/helpers"
)

func createTestUser(t *testing.T, pool *pgxpool.Pool, prefix string) uuid.UUID {
	t.Helper()

	authService := services.NewAuthService(pool, helpers.TestJWTSecret)
	resp, err := authService.Register(context.Background(), &user.RegisterRequest{
		Username: helpers.UniqueUsername(prefix),
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	id, err := uuid.Parse(resp.User.ID)
	require.NoError(t, err)
	return id
}

func newWorkoutService(t *testing.T, pool *pgxpool.Pool) *services.WorkoutService {
	t.Helper()

	photos, err := services.NewPhotoService(t.TempDir())
	require.NoError(t, err)
	return services.NewWorkoutService(pool, photos)
}

// insertWorkout bypasses the today-only rule to seed history.
func insertWorkout(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, date time.Time) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO workouts (id, user_id, date, image_url, notes, created_at)
		 VALUES ($1, $2, $3, $4, NULL, NOW())`,
		uuid.New(), userID, date, "/assets/uploads/"+uuid.New().String()+".jpg")
	require.NoError(t, err)
}

func TestRecord_RejectsNonTodayDates(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	workoutService := newWorkoutService(t, pool)
	userID := createTestUser(t, pool, "dates")
	ctx := context.Background()

	yesterday := services.Today().AddDate(0, 0, -1)
	_, err := workoutService.Record(ctx, userID, yesterday, "/assets/uploads/x.jpg", nil)
	assert.ErrorIs(t, err, services.ErrInvalidDate)

	tomorrow := services.Today().AddDate(0, 0, 1)
	_, err = workoutService.Record(ctx, userID, tomorrow, "/assets/uploads/x.jpg", nil)
	assert.ErrorIs(t, err, services.ErrInvalidDate)
}

func TestRecord_DuplicateDayRejected(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	workoutService := newWorkoutService(t, pool)
	userID := createTestUser(t, pool, "duplicate")
	ctx := context.Background()

	entry, err := workoutService.Record(ctx, userID, services.Today(), "/assets/uploads/a.jpg", nil)
	require.NoError(t, err)
	assert.Equal(t, services.Today().Format("2006-01-02"), entry.DateStr)

	_, err = workoutService.Record(ctx, userID, services.Today(), "/assets/uploads/b.jpg", nil)
	assert.ErrorIs(t, err, services.ErrDuplicateEntry)

	// Exactly one entry for the day, never two.
	entries, err := workoutService.Entries(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/assets/uploads/a.jpg", entries[0].ImageURL)
}

func TestRemove_TodayOnlyAndNotFound(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	workoutService := newWorkoutService(t, pool)
	userID := createTestUser(t, pool, "remove")
	ctx := context.Background()

	// Nothing logged yet.
	err := workoutService.Remove(ctx, userID, services.Today())
	assert.ErrorIs(t, err, services.ErrNotFound)

	// History is immutable even when an entry exists.
	yesterday := services.Today().AddDate(0, 0, -1)
	insertWorkout(t, pool, userID, yesterday)
	err = workoutService.Remove(ctx, userID, yesterday)
	assert.ErrorIs(t, err, services.ErrInvalidDate)

	// Today's entry can be removed.
	_, err = workoutService.Record(ctx, userID, services.Today(), "/assets/uploads/c.jpg", nil)
	require.NoError(t, err)
	require.NoError(t, workoutService.Remove(ctx, userID, services.Today()))

	err = workoutService.Remove(ctx, userID, services.Today())
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestEntries_OrderedAndRepeatable(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	workoutService := newWorkoutService(t, pool)
	userID := createTestUser(t, pool, "entries")
	ctx := context.Background()

	today := services.Today()
	insertWorkout(t, pool, userID, today.AddDate(0, 0, -5))
	insertWorkout(t, pool, userID, today.AddDate(0, 0, -1))
	insertWorkout(t, pool, userID, today.AddDate(0, 0, -3))

	first, err := workoutService.Entries(ctx, userID)
	require.NoError(t, err)
	require.Len(t, first, 3)
	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].Date.Before(first[i].Date), "entries must be date ascending")
	}

	second, err := workoutService.Entries(ctx, userID)
	require.NoError(t, err)
	require.Len(t, second, 3)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestStreaks_FromSeededHistory(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	workoutService := newWorkoutService(t, pool)
	userID := createTestUser(t, pool, "streaks")
	ctx := context.Background()

	// Three consecutive days ending yesterday.
	today := services.Today()
	for i := 1; i <= 3; i++ {
		insertWorkout(t, pool, userID, today.AddDate(0, 0, -i))
	}

	st, err := workoutService.Streaks(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, st.CurrentStreak)
	assert.Equal(t, 3, st.LongestStreak)
}

func TestStreaksHandler_Authenticated(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	workoutService := newWorkoutService(t, pool)
	photos, err := services.NewPhotoService(t.TempDir())
	require.NoError(t, err)
	workoutHandler := handlers.NewWorkoutHandler(workoutService, photos)

	userID := createTestUser(t, pool, "streakapi")
	insertWorkout(t, pool, userID, services.Today())

	req := httptest.NewRequest(http.MethodGet, "/api/streaks", nil)
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID.String())
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	workoutHandler.GetStreaks(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		CurrentStreak int `json:"current_streak"`
		LongestStreak int `json:"longest_streak"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.CurrentStreak)
	assert.Equal(t, 1, resp.LongestStreak)
}

func TestStreaksHandler_Unauthenticated(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	workoutService := newWorkoutService(t, pool)
	photos, err := services.NewPhotoService(t.TempDir())
	require.NoError(t, err)
	workoutHandler := handlers.NewWorkoutHandler(workoutService, photos)

	req := httptest.NewRequest(http.MethodGet, "/api/streaks", nil)
	rr := httptest.NewRecorder()
	workoutHandler.GetStreaks(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLeaderboard_RanksSeededUsers(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	leaderboardService := services.NewLeaderboardService(pool)

	heavy := createTestUser(t, pool, "lbheavy")
	light := createTestUser(t, pool, "lblight")
	idle := createTestUser(t, pool, "lbidle")

	today := services.Today()
	for i := 0; i < 4; i++ {
		insertWorkout(t, pool, heavy, today.AddDate(0, 0, -i))
	}
	insertWorkout(t, pool, light, today)

	entries, err := leaderboardService.GetLeaderboard(context.Background())
	require.NoError(t, err)

	byID := make(map[uuid.UUID]*leaderboard.Entry, len(entries))
	for _, e := range entries {
		byID[e.UserID] = e
	}
	require.Contains(t, byID, heavy)
	require.Contains(t, byID, light)
	require.Contains(t, byID, idle)

	// Shared DB may hold other rows; only relative order is asserted.
	assert.Less(t, byID[heavy].Rank, byID[light].Rank)
	assert.Less(t, byID[light].Rank, byID[idle].Rank)
	assert.Equal(t, 0, byID[idle].TotalWorkouts)

	// Distinct dense ranks across the board.
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		assert.False(t, seen[e.Rank], "rank %d assigned twice", e.Rank)
		seen[e.Rank] = true
	}
}

func TestRecord_ConcurrentSameDay(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	workoutService := newWorkoutService(t, pool)
	userID := createTestUser(t, pool, "race")
	ctx := context.Background()

	const attempts = 8
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, err := workoutService.Record(ctx, userID, services.Today(), "/assets/uploads/r.jpg", nil)
			errs <- err
		}()
	}

	succeeded := 0
	for i := 0; i < attempts; i++ {
		if err := <-errs; err == nil {
			succeeded++
		} else {
			require.True(t, errors.Is(err, services.ErrDuplicateEntry), "unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)

	entries, err := workoutService.Entries(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
