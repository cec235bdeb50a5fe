package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"workoutCalendarAPI/services"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// GetLeaderboard returns the monthly ranking across all registered users.
// The frontend renders the entries list directly.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, ok := authedUserID(ctx); !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	entries, err := h.leaderboardService.GetLeaderboard(ctx)
	if err != nil {
		log.Printf("GetLeaderboard: %v", err)
		if errors.Is(err, context.DeadlineExceeded) {
			respondWithError(w, http.StatusGatewayTimeout, "Leaderboard computation timed out")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to build leaderboard")
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}
