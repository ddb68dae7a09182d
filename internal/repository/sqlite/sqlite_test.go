package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/chayanin/runtrack-backend/internal/model"
)

// newTestDB returns a DB backed by an in-memory SQLite database that is
// closed automatically when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser seeds a user and fails the test on error.
func createTestUser(t *testing.T, db *DB, email string, role model.Role, coachID string) *model.User {
	t.Helper()
	user := &model.User{
		Email:   email,
		Name:    "Test " + email,
		Role:    role,
		CoachID: coachID,
	}
	if err := db.Upsert(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %s: %v", email, err)
	}
	return user
}

// createTestSession seeds a training session for a coach/runner pair.
func createTestSession(t *testing.T, db *DB, coachID, runnerID string) *model.TrainingSession {
	t.Helper()
	s := &model.TrainingSession{
		CoachID:            coachID,
		RunnerID:           runnerID,
		PlannedDistanceKm:  10,
		PlannedDurationMin: 60,
		WorkoutType:        "tempo",
		Intensity:          "moderate",
		Notes:              "steady pace",
		ScheduledFor:       time.Now().Add(24 * time.Hour),
	}
	if err := db.CreateSession(context.Background(), s); err != nil {
		t.Fatalf("failed to create test session: %v", err)
	}
	return s
}

// createTestLog seeds a workout log with an explicit creation time so
// ordering tests are deterministic.
func createTestLog(t *testing.T, db *DB, sessionID, runnerID string, status model.WorkoutStatus, createdAt time.Time) *model.WorkoutLog {
	t.Helper()
	l := &model.WorkoutLog{
		SessionID:        sessionID,
		RunnerID:         runnerID,
		Status:           status,
		ActualDistanceKm: 9.5,
		CreatedAt:        createdAt,
	}
	if err := db.CreateLog(context.Background(), l); err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	return l
}
