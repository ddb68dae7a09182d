// Package repository declares the storage interfaces consumed by the
// service layer. Concrete implementations live in subpackages (sqlite);
// tests substitute in-memory mocks.
package repository

import (
	"context"
	"time"

	"github.com/chayanin/runtrack-backend/internal/model"
)

// HistoryFilter is the validated filter set for a workout history query.
// All filter fields are optional; Page and Limit are always set by the
// time a repository sees the filter.
type HistoryFilter struct {
	RunnerID  string
	StartDate *time.Time
	EndDate   *time.Time
	Status    model.WorkoutStatus
	Page      int
	Limit     int
}

// ProfileUpdate carries the mutable profile fields of a PUT request. Nil
// fields are left untouched.
type ProfileUpdate struct {
	Name    *string
	Profile *model.Profile
}

// UserRepository reads and writes identity records.
type UserRepository interface {
	// Upsert inserts the user on first login or refreshes name/avatar on
	// subsequent logins, keyed by email. Fills ID and timestamps.
	Upsert(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// UpdateProfile applies a partial profile update to the user with the
	// given email and returns the updated record.
	UpdateProfile(ctx context.Context, email string, upd ProfileUpdate) (*model.User, error)
	// ListByCoach returns the runners assigned to a coach, in the store's
	// natural return order.
	ListByCoach(ctx context.Context, coachID string) ([]model.User, error)
}

// WorkoutRepository reads workout history.
type WorkoutRepository interface {
	// History runs the filtered, paginated data query plus the matching
	// count query and returns both results. The two reads are independent;
	// a count-vs-page mismatch under concurrent writes is accepted.
	History(ctx context.Context, filter HistoryFilter) ([]model.HistoryEntry, int, error)
}
