package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chayanin/runtrack-backend/internal/apperror"
	"github.com/chayanin/runtrack-backend/internal/model"
	"github.com/chayanin/runtrack-backend/internal/repository"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// HistoryParams are the raw, still-unvalidated query parameters of a
// history request.
type HistoryParams struct {
	RunnerID  string
	StartDate string
	EndDate   string
	Status    string
	Page      int
	Limit     int
}

// HistoryResult is the response body of GET /api/workout-logs/history.
type HistoryResult struct {
	Logs       []model.HistoryEntry `json:"logs"`
	Pagination model.Pagination     `json:"pagination"`
}

// WorkoutService validates history filters and runs the paginated query.
type WorkoutService struct {
	workouts repository.WorkoutRepository
	logger   *slog.Logger
}

// NewWorkoutService creates a WorkoutService.
func NewWorkoutService(workouts repository.WorkoutRepository, logger *slog.Logger) *WorkoutService {
	return &WorkoutService{workouts: workouts, logger: logger}
}

// History validates params, runs the data and count queries, and computes
// the pagination block. All validation happens before the repository is
// touched; a store failure surfaces as an internal error with no partial
// result.
func (s *WorkoutService) History(ctx context.Context, params HistoryParams) (*HistoryResult, error) {
	filter, err := s.validate(params)
	if err != nil {
		return nil, err
	}

	entries, total, err := s.workouts.History(ctx, *filter)
	if err != nil {
		s.logger.Error("workout history query failed", slog.String("error", err.Error()))
		return nil, apperror.Internal(err)
	}

	return &HistoryResult{
		Logs:       entries,
		Pagination: model.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

func (s *WorkoutService) validate(params HistoryParams) (*repository.HistoryFilter, error) {
	if params.Page < 1 {
		return nil, apperror.InvalidArgument("page", "page must be >= 1")
	}
	if params.Limit < 1 || params.Limit > MaxHistoryLimit {
		return nil, apperror.InvalidArgument("limit",
			fmt.Sprintf("limit must be between 1 and %d", MaxHistoryLimit))
	}

	filter := &repository.HistoryFilter{
		RunnerID: params.RunnerID,
		Page:     params.Page,
		Limit:    params.Limit,
	}

	if params.Status != "" {
		status := model.WorkoutStatus(strings.ToLower(params.Status))
		if !status.Valid() {
			return nil, apperror.InvalidArgument("status", fmt.Sprintf(
				"invalid status %q: must be one of %s", params.Status, statusList()))
		}
		filter.Status = status
	}

	if params.StartDate != "" {
		t, err := parseDate(params.StartDate, false)
		if err != nil {
			return nil, apperror.InvalidArgument("startDate",
				fmt.Sprintf("invalid startDate %q: use YYYY-MM-DD or RFC 3339", params.StartDate))
		}
		filter.StartDate = &t
	}
	if params.EndDate != "" {
		t, err := parseDate(params.EndDate, true)
		if err != nil {
			return nil, apperror.InvalidArgument("endDate",
				fmt.Sprintf("invalid endDate %q: use YYYY-MM-DD or RFC 3339", params.EndDate))
		}
		filter.EndDate = &t
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, apperror.InvalidArgument("endDate", "endDate must not be before startDate")
	}

	return filter, nil
}

// parseDate accepts a date-only or RFC 3339 value. Date-only end bounds
// are pushed to the end of the day so the range stays inclusive.
func parseDate(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func statusList() string {
	parts := make([]string, len(model.WorkoutStatuses))
	for i, s := range model.WorkoutStatuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
