package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/chayanin/runtrack-backend/internal/apperror"
	"github.com/chayanin/runtrack-backend/internal/model"
	"github.com/chayanin/runtrack-backend/internal/repository"
)

// mockUserRepo is an in-memory repository.UserRepository. Calls is
// incremented on every method so tests can assert that validation
// failures never reach the store.
type mockUserRepo struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
	nextID  int
	calls   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (m *mockUserRepo) add(u model.User) *model.User {
	if u.ID == "" {
		m.nextID++
		u.ID = fmt.Sprintf("user-%d", m.nextID)
	}
	stored := u
	m.byID[stored.ID] = &stored
	m.byEmail[stored.Email] = &stored
	return &stored
}

func (m *mockUserRepo) Upsert(_ context.Context, user *model.User) error {
	m.calls++
	if existing, ok := m.byEmail[user.Email]; ok {
		existing.GoogleID = user.GoogleID
		existing.Name = user.Name
		existing.AvatarURL = user.AvatarURL
		*user = *existing
		return nil
	}
	*user = *m.add(*user)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.calls++
	u, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.calls++
	u, ok := m.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, email string, upd repository.ProfileUpdate) (*model.User, error) {
	m.calls++
	u, ok := m.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Profile != nil {
		if u.Profile == nil {
			u.Profile = &model.Profile{}
		}
		if upd.Profile.WeightKg != nil {
			u.Profile.WeightKg = upd.Profile.WeightKg
		}
		if upd.Profile.HeightCm != nil {
			u.Profile.HeightCm = upd.Profile.HeightCm
		}
		if upd.Profile.Experience != nil {
			u.Profile.Experience = upd.Profile.Experience
		}
		if upd.Profile.Goals != nil {
			u.Profile.Goals = upd.Profile.Goals
		}
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) ListByCoach(_ context.Context, coachID string) ([]model.User, error) {
	m.calls++
	var runners []model.User
	// Deterministic order: by generated ID sequence.
	for i := 1; i <= m.nextID; i++ {
		u, ok := m.byID[fmt.Sprintf("user-%d", i)]
		if ok && u.CoachID == coachID {
			runners = append(runners, *u)
		}
	}
	return runners, nil
}

// mockWorkoutRepo records the filter it was called with and returns a
// canned result.
type mockWorkoutRepo struct {
	entries []model.HistoryEntry
	total   int
	err     error
	calls   int
	filter  repository.HistoryFilter
}

func (m *mockWorkoutRepo) History(_ context.Context, filter repository.HistoryFilter) ([]model.HistoryEntry, int, error) {
	m.calls++
	m.filter = filter
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.entries, m.total, nil
}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
