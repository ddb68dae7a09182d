package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chayanin/runtrack-backend/internal/apperror"
	"github.com/chayanin/runtrack-backend/internal/model"
)

func TestRoleInfoRunnerWithCoach(t *testing.T) {
	repo := newMockUserRepo()
	coach := repo.add(model.User{Email: "coach@example.com", Name: "Coach", Role: model.RoleCoach})
	runner := repo.add(model.User{Email: "r@example.com", Name: "Runner", Role: model.RoleRunner, CoachID: coach.ID})
	svc := NewRoleService(repo, testLogger(t))

	info, err := svc.Info(context.Background(), runner.ID)
	require.NoError(t, err)

	assert.Equal(t, runner.ID, info.UserID)
	assert.Equal(t, model.RoleRunner, info.Role)
	assert.Equal(t, []string{
		"view_own_profile", "edit_own_profile", "view_training_plans", "log_workouts", "view_feedback",
	}, permissionStrings(info))

	require.NotNil(t, info.Coach)
	assert.Equal(t, coach.ID, info.Coach.ID)
	assert.Equal(t, "Coach", info.Coach.Name)
	assert.Equal(t, "coach@example.com", info.Coach.Email)
	assert.Empty(t, info.Coach.Role)
	assert.Nil(t, info.Runners)
}

func TestRoleInfoRunnerWithoutCoach(t *testing.T) {
	repo := newMockUserRepo()
	runner := repo.add(model.User{Email: "r@example.com", Role: model.RoleRunner})
	svc := NewRoleService(repo, testLogger(t))

	info, err := svc.Info(context.Background(), runner.ID)
	require.NoError(t, err)
	assert.Nil(t, info.Coach)
	assert.Nil(t, info.Runners)
}

func TestRoleInfoRunnerWithDanglingCoach(t *testing.T) {
	repo := newMockUserRepo()
	runner := repo.add(model.User{Email: "r@example.com", Role: model.RoleRunner, CoachID: "gone"})
	svc := NewRoleService(repo, testLogger(t))

	info, err := svc.Info(context.Background(), runner.ID)
	require.NoError(t, err)
	assert.Nil(t, info.Coach)
}

func TestRoleInfoCoach(t *testing.T) {
	repo := newMockUserRepo()
	coach := repo.add(model.User{Email: "coach@example.com", Name: "Coach", Role: model.RoleCoach})
	r1 := repo.add(model.User{Email: "r1@example.com", Name: "R1", Role: model.RoleRunner, CoachID: coach.ID})
	r2 := repo.add(model.User{Email: "r2@example.com", Name: "R2", Role: model.RoleRunner, CoachID: coach.ID})
	repo.add(model.User{Email: "other@example.com", Role: model.RoleRunner})
	svc := NewRoleService(repo, testLogger(t))

	info, err := svc.Info(context.Background(), coach.ID)
	require.NoError(t, err)

	assert.Nil(t, info.Coach)
	require.Len(t, info.Runners, 2)
	assert.Equal(t, r1.ID, info.Runners[0].ID)
	assert.Equal(t, r2.ID, info.Runners[1].ID)
	for _, r := range info.Runners {
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.Email)
		assert.Equal(t, model.RoleRunner, r.Role)
	}
}

func TestRoleInfoAdmin(t *testing.T) {
	repo := newMockUserRepo()
	admin := repo.add(model.User{Email: "admin@example.com", Role: model.RoleAdmin})
	svc := NewRoleService(repo, testLogger(t))

	info, err := svc.Info(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"manage_all_users", "view_all_data", "system_administration", "manage_coaches", "manage_runners",
	}, permissionStrings(info))
	assert.Nil(t, info.Coach)
	assert.Nil(t, info.Runners)
}

func TestRoleInfoUnknownUser(t *testing.T) {
	svc := NewRoleService(newMockUserRepo(), testLogger(t))

	_, err := svc.Info(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func permissionStrings(info *RoleInfo) []string {
	out := make([]string, len(info.Permissions))
	for i, p := range info.Permissions {
		out[i] = string(p)
	}
	return out
}
