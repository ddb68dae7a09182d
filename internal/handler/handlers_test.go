package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chayanin/runtrack-backend/internal/apperror"
	"github.com/chayanin/runtrack-backend/internal/auth"
	"github.com/chayanin/runtrack-backend/internal/model"
	"github.com/chayanin/runtrack-backend/internal/repository"
	"github.com/chayanin/runtrack-backend/internal/service"
)

// stubUserRepo counts every call so tests can prove an unauthenticated
// request never reaches the store.
type stubUserRepo struct {
	users map[string]*model.User // keyed by both ID and email
	calls int
}

func newStubUserRepo(users ...*model.User) *stubUserRepo {
	s := &stubUserRepo{users: make(map[string]*model.User)}
	for _, u := range users {
		s.users[u.ID] = u
		s.users[u.Email] = u
	}
	return s
}

func (s *stubUserRepo) Upsert(context.Context, *model.User) error {
	s.calls++
	return nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	s.calls++
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("user", id)
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.calls++
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("user", email)
}

func (s *stubUserRepo) UpdateProfile(_ context.Context, email string, _ repository.ProfileUpdate) (*model.User, error) {
	s.calls++
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("user", email)
}

func (s *stubUserRepo) ListByCoach(_ context.Context, coachID string) ([]model.User, error) {
	s.calls++
	var out []model.User
	for key, u := range s.users {
		if key == u.ID && u.CoachID == coachID {
			out = append(out, *u)
		}
	}
	return out, nil
}

type stubWorkoutRepo struct {
	entries []model.HistoryEntry
	total   int
	calls   int
}

func (s *stubWorkoutRepo) History(context.Context, repository.HistoryFilter) ([]model.HistoryEntry, int, error) {
	s.calls++
	return s.entries, s.total, nil
}

// testEnv wires a chi router the way internal/server does, backed by
// stub repositories.
type testEnv struct {
	router   *chi.Mux
	tokens   *auth.TokenService
	userRepo *stubUserRepo
	workouts *stubWorkoutRepo
}

func newTestEnv(t *testing.T, users ...*model.User) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars")
	require.NoError(t, err)

	userRepo := newStubUserRepo(users...)
	workouts := &stubWorkoutRepo{}
	responder := NewResponder(false, logger)

	userHandler := NewUserHandler(
		service.NewRoleService(userRepo, logger),
		service.NewProfileService(userRepo, logger),
		responder,
	)
	workoutHandler := NewWorkoutHandler(service.NewWorkoutService(workouts, logger), responder)

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/api/users/role", userHandler.HandleRole)
		r.Get("/api/users/profile", userHandler.HandleGetProfile)
		r.Put("/api/users/profile", userHandler.HandlePutProfile)
		r.Get("/api/workout-logs/history", workoutHandler.HandleHistory)
	})

	return &testEnv{router: router, tokens: tokens, userRepo: userRepo, workouts: workouts}
}

func (e *testEnv) request(t *testing.T, method, target, body string, user *model.User) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if user != nil {
		token, err := e.tokens.Generate(auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestProfileUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	for _, method := range []string{http.MethodGet, http.MethodPut} {
		rec := env.request(t, method, "/api/users/profile", `{}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, method)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
	}

	// The store was never touched.
	assert.Zero(t, env.userRepo.calls)
}

func TestHistoryUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/workout-logs/history", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, env.workouts.calls)
}

func TestHistoryHappyPath(t *testing.T) {
	runner := &model.User{ID: "u1", Email: "r@example.com", Name: "Runner", Role: model.RoleRunner}
	env := newTestEnv(t, runner)
	env.workouts.total = 45
	env.workouts.entries = []model.HistoryEntry{
		{
			WorkoutLog: model.WorkoutLog{ID: "log-1", RunnerID: "u1", Status: model.StatusCompleted},
			Runner:     model.UserSummary{ID: "u1", Name: "Runner", Email: "r@example.com"},
			Session:    model.SessionSummary{ID: "s1", PlannedDistanceKm: 12, WorkoutType: "long run"},
		},
	}

	rec := env.request(t, http.MethodGet, "/api/workout-logs/history?page=1&limit=20&status=completed", "", runner)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool                  `json:"success"`
		Data    service.HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data.Logs, 1)
	assert.Equal(t, "log-1", body.Data.Logs[0].ID)
	assert.Equal(t, "s1", body.Data.Logs[0].Session.ID)

	p := body.Data.Pagination
	assert.Equal(t, 45, p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNextPage)
	assert.False(t, p.HasPreviousPage)
}

func TestHistoryInvalidLimit(t *testing.T) {
	runner := &model.User{ID: "u1", Email: "r@example.com", Role: model.RoleRunner}
	env := newTestEnv(t, runner)

	rec := env.request(t, http.MethodGet, "/api/workout-logs/history?limit=101", "", runner)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "limit must be between 1 and 100")
	assert.Zero(t, env.workouts.calls)
}

func TestHistoryBogusStatus(t *testing.T) {
	runner := &model.User{ID: "u1", Email: "r@example.com", Role: model.RoleRunner}
	env := newTestEnv(t, runner)

	rec := env.request(t, http.MethodGet, "/api/workout-logs/history?status=bogus", "", runner)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "completed, dnf, undone, pending")
	assert.Zero(t, env.workouts.calls)
}

func TestRoleEndpointRunnerWithCoach(t *testing.T) {
	coach := &model.User{ID: "c1", Email: "coach@example.com", Name: "Coach", Role: model.RoleCoach}
	runner := &model.User{ID: "u1", Email: "r@example.com", Name: "Runner", Role: model.RoleRunner, CoachID: "c1"}
	env := newTestEnv(t, coach, runner)

	rec := env.request(t, http.MethodGet, "/api/users/role", "", runner)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data service.RoleInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, model.RoleRunner, body.Data.Role)
	require.NotNil(t, body.Data.Coach)
	assert.Equal(t, "c1", body.Data.Coach.ID)
}

func TestRoleEndpointMissingIdentityRecord(t *testing.T) {
	// A valid token whose user record was deleted yields 404.
	ghost := &model.User{ID: "gone", Email: "gone@example.com", Role: model.RoleRunner}
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/users/role", "", ghost)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPutProfileValidation(t *testing.T) {
	runner := &model.User{ID: "u1", Email: "r@example.com", Role: model.RoleRunner}
	env := newTestEnv(t, runner)
	before := env.userRepo.calls

	rec := env.request(t, http.MethodPut, "/api/users/profile", `{"weightKg": -5}`, runner)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "weightKg")
	assert.Equal(t, before, env.userRepo.calls)
}
