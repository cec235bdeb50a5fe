package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"workoutCalendarAPI/internal/workout"
	"workoutCalendarAPI/middleware"
	"workoutCalendarAPI/services"
)

const maxUploadSize = 10 << 20 // 10 MB

type WorkoutHandler struct {
	workoutService *services.WorkoutService
	photoService   *services.PhotoService
}

func NewWorkoutHandler(workoutService *services.WorkoutService, photoService *services.PhotoService) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
		photoService:   photoService,
	}
}

func (h *WorkoutHandler) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := authedUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	entries, err := h.workoutService.Entries(ctx, userID)
	if err != nil {
		log.Printf("ListWorkouts: %v", err)
		if errors.Is(err, context.DeadlineExceeded) {
			respondWithError(w, http.StatusGatewayTimeout, "Storage timed out")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to load workouts")
		return
	}

	if entries == nil {
		entries = []*workout.Entry{}
	}
	respondWithJSON(w, http.StatusOK, entries)
}

func (h *WorkoutHandler) CreateWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID, ok := authedUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	dateStr := r.FormValue("workout_date")
	date, err := time.Parse(workout.DateFormat, dateStr)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "workout_date must be YYYY-MM-DD")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	imageURL, err := h.photoService.Save(file, header)
	if err != nil {
		if errors.Is(err, services.ErrInvalidArgument) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("CreateWorkout: failed to store image: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	var notes *string
	if n := r.FormValue("notes"); n != "" {
		notes = &n
	}

	entry, err := h.workoutService.Record(ctx, userID, date, imageURL, notes)
	if err != nil {
		// The image is never referenced by a row at this point.
		_ = h.photoService.Delete(imageURL)

		switch {
		case errors.Is(err, services.ErrInvalidDate):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrDuplicateEntry):
			respondWithError(w, http.StatusConflict, err.Error())
		default:
			log.Printf("CreateWorkout: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to log workout")
		}
		return
	}

	middleware.CountWorkoutLogged()
	respondWithJSON(w, http.StatusCreated, entry)
}

func (h *WorkoutHandler) DeleteWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := authedUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	dateStr := mux.Vars(r)["date"]
	date, err := time.Parse(workout.DateFormat, dateStr)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	if err := h.workoutService.Remove(ctx, userID, date); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDate):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrNotFound):
			respondWithError(w, http.StatusNotFound, err.Error())
		default:
			log.Printf("DeleteWorkout: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to remove workout")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Workout removed"})
}

func (h *WorkoutHandler) GetStreaks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := authedUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	st, err := h.workoutService.Streaks(ctx, userID)
	if err != nil {
		log.Printf("GetStreaks: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to compute streaks")
		return
	}

	respondWithJSON(w, http.StatusOK, st)
}

func (h *WorkoutHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := authedUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	year := r.URL.Query().Get("year")
	month := r.URL.Query().Get("month")
	if year == "" || month == "" {
		respondWithError(w, http.StatusBadRequest, "year and month are required")
		return
	}

	var yearInt, monthInt int
	if _, err := fmt.Sscanf(year, "%d", &yearInt); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid year format")
		return
	}
	if _, err := fmt.Sscanf(month, "%d", &monthInt); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid month format")
		return
	}

	cal, err := h.workoutService.Calendar(ctx, userID, yearInt, monthInt)
	if err != nil {
		if errors.Is(err, services.ErrInvalidArgument) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("GetCalendar: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to build calendar")
		return
	}

	respondWithJSON(w, http.StatusOK, cal)
}

func (h *WorkoutHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := authedUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	userStats, err := h.workoutService.Stats(ctx, userID)
	if err != nil {
		log.Printf("GetStats: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	respondWithJSON(w, http.StatusOK, userStats)
}

// PeriodStats serves /api/stats/{weekly,monthly,yearly,all-time}.
func (h *WorkoutHandler) PeriodStats(period string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		userID, ok := authedUserID(ctx)
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		stat, err := h.workoutService.PeriodStat(ctx, userID, period)
		if err != nil {
			if errors.Is(err, services.ErrInvalidArgument) {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			log.Printf("PeriodStats(%s): %v", period, err)
			respondWithError(w, http.StatusInternalServerError, "Failed to load stats")
			return
		}

		respondWithJSON(w, http.StatusOK, stat)
	}
}

func authedUserID(ctx context.Context) (uuid.UUID, bool) {
	raw, ok := middleware.GetUserID(ctx)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
