package model

import "time"

// WorkoutStatus records how a planned session actually went.
type WorkoutStatus string

const (
	StatusCompleted WorkoutStatus = "completed"
	StatusDNF       WorkoutStatus = "dnf"
	StatusUndone    WorkoutStatus = "undone"
	StatusPending   WorkoutStatus = "pending"
)

// WorkoutStatuses lists the accepted status values, in the order they are
// reported back in validation errors.
var WorkoutStatuses = []WorkoutStatus{StatusCompleted, StatusDNF, StatusUndone, StatusPending}

// Valid reports whether s is one of the known status values.
func (s WorkoutStatus) Valid() bool {
	for _, v := range WorkoutStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// TrainingSession is a coach-planned workout for one runner. WorkoutLog
// entries reference it as their parent; history responses dereference the
// planned fields at read time.
type TrainingSession struct {
	ID                 string    `json:"id"`
	CoachID            string    `json:"coachId"`
	RunnerID           string    `json:"runnerId"`
	PlannedDistanceKm  float64   `json:"plannedDistanceKm"`
	PlannedDurationMin int       `json:"plannedDurationMin"`
	WorkoutType        string    `json:"workoutType"`
	Intensity          string    `json:"intensity"`
	Notes              string    `json:"notes,omitempty"`
	ScheduledFor       time.Time `json:"scheduledFor"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// SessionSummary is the session shape embedded in a history entry.
type SessionSummary struct {
	ID                 string  `json:"id"`
	PlannedDistanceKm  float64 `json:"plannedDistanceKm"`
	PlannedDurationMin int     `json:"plannedDurationMin"`
	WorkoutType        string  `json:"workoutType"`
	Intensity          string  `json:"intensity"`
	Notes              string  `json:"notes,omitempty"`
}

// WorkoutLog is one runner's record of one training session.
type WorkoutLog struct {
	ID                string        `json:"id"`
	SessionID         string        `json:"sessionId"`
	RunnerID          string        `json:"runnerId"`
	Status            WorkoutStatus `json:"status"`
	ActualDistanceKm  float64       `json:"actualDistanceKm"`
	ActualDurationMin int           `json:"actualDurationMin"`
	Feeling           string        `json:"feeling,omitempty"`
	Notes             string        `json:"notes,omitempty"`
	ExternalLinks     string        `json:"externalLinks,omitempty"`
	Injuries          string        `json:"injuries,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// HistoryEntry is one row of the workout history listing: the log itself
// plus the dereferenced runner and parent session.
type HistoryEntry struct {
	WorkoutLog
	Runner  UserSummary    `json:"runner"`
	Session SessionSummary `json:"session"`
}

// Pagination is the derived paging block returned alongside every list.
type Pagination struct {
	Page            int  `json:"page"`
	Limit           int  `json:"limit"`
	Total           int  `json:"total"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// NewPagination computes the paging block for a page/limit/total triple.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:            page,
		Limit:           limit,
		Total:           total,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}
