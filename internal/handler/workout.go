package handler

import (
	"net/http"
	"strconv"

	"github.com/chayanin/runtrack-backend/internal/apperror"
	"github.com/chayanin/runtrack-backend/internal/auth"
	"github.com/chayanin/runtrack-backend/internal/service"
)

// WorkoutHandler serves the workout history listing.
type WorkoutHandler struct {
	workouts  *service.WorkoutService
	responder *Responder
}

// NewWorkoutHandler creates a WorkoutHandler.
func NewWorkoutHandler(workouts *service.WorkoutService, responder *Responder) *WorkoutHandler {
	return &WorkoutHandler{workouts: workouts, responder: responder}
}

// HandleHistory lists workout logs filtered by runner, date range, and
// status, newest first.
//
// HTTP: GET /api/workout-logs/history?runnerId&startDate&endDate&status&page&limit
func (h *WorkoutHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.IdentityFromContext(r.Context()); !ok {
		h.responder.Error(w, apperror.Unauthorized(""))
		return
	}

	q := r.URL.Query()

	page, err := intParam(q.Get("page"), 1)
	if err != nil {
		h.responder.Error(w, apperror.InvalidArgument("page", "page must be an integer"))
		return
	}
	limit, err := intParam(q.Get("limit"), service.DefaultHistoryLimit)
	if err != nil {
		h.responder.Error(w, apperror.InvalidArgument("limit", "limit must be an integer"))
		return
	}

	result, err := h.workouts.History(r.Context(), service.HistoryParams{
		RunnerID:  q.Get("runnerId"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Status:    q.Get("status"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		h.responder.Error(w, err)
		return
	}

	h.responder.OK(w, "", result)
}

func intParam(value string, def int) (int, error) {
	if value == "" {
		return def, nil
	}
	return strconv.Atoi(value)
}
