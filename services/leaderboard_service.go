package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"workoutCalendarAPI/internal/leaderboard"
)

type LeaderboardService struct {
	db *pgxpool.Pool
}

func NewLeaderboardService(db *pgxpool.Pool) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// GetLeaderboard ranks every registered user for the month containing today.
// All workout dates are loaded and the ranking itself runs in Go so the
// composite ordering and tie-breaks live in one place (internal/leaderboard)
// instead of being split across SQL window functions.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context) ([]*leaderboard.Entry, error) {
	query := `
	SELECT u.id, u.username, w.date
	FROM users u
	LEFT JOIN workouts w ON w.user_id = u.id
	ORDER BY u.id, w.date
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard data: %w", err)
	}
	defer rows.Close()

	var logs []leaderboard.UserLog
	for rows.Next() {
		var (
			id       uuid.UUID
			username string
			date     *time.Time
		)
		if err := rows.Scan(&id, &username, &date); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		if len(logs) == 0 || logs[len(logs)-1].UserID != id {
			logs = append(logs, leaderboard.UserLog{UserID: id, Username: username})
		}
		if date != nil {
			last := &logs[len(logs)-1]
			last.Dates = append(last.Dates, *date)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard data: %w", err)
	}

	return leaderboard.Rank(logs, Today()), nil
}
