// Package authz holds the role-to-permission mapping and the path-based
// access rules. Everything here is pure and side-effect free: the
// permission tables are immutable constants, and classification never
// touches the database.
package authz

import "github.com/chayanin/runtrack-backend/internal/model"

// Permission is a named capability string consumed by the UI and by
// authorization checks.
type Permission string

const (
	PermViewAllRunners       Permission = "view_all_runners"
	PermCreateTrainingPlans  Permission = "create_training_plans"
	PermEditTrainingPlans    Permission = "edit_training_plans"
	PermViewWorkoutLogs      Permission = "view_workout_logs"
	PermProvideFeedback      Permission = "provide_feedback"
	PermManageRunners        Permission = "manage_runners"
	PermViewOwnProfile       Permission = "view_own_profile"
	PermEditOwnProfile       Permission = "edit_own_profile"
	PermViewTrainingPlans    Permission = "view_training_plans"
	PermLogWorkouts          Permission = "log_workouts"
	PermViewFeedback         Permission = "view_feedback"
	PermManageAllUsers       Permission = "manage_all_users"
	PermViewAllData          Permission = "view_all_data"
	PermSystemAdministration Permission = "system_administration"
	PermManageCoaches        Permission = "manage_coaches"
)

var (
	coachPermissions = []Permission{
		PermViewAllRunners,
		PermCreateTrainingPlans,
		PermEditTrainingPlans,
		PermViewWorkoutLogs,
		PermProvideFeedback,
		PermManageRunners,
	}
	runnerPermissions = []Permission{
		PermViewOwnProfile,
		PermEditOwnProfile,
		PermViewTrainingPlans,
		PermLogWorkouts,
		PermViewFeedback,
	}
	adminPermissions = []Permission{
		PermManageAllUsers,
		PermViewAllData,
		PermSystemAdministration,
		PermManageCoaches,
		PermManageRunners,
	}
	// Any unknown or unset role falls back to the minimal set.
	defaultPermissions = []Permission{PermViewOwnProfile}
)

// PermissionsFor maps a role to its fixed permission set. Total over all
// inputs: unknown roles get the minimal view_own_profile set. The returned
// slice is a copy, so callers may not corrupt the tables.
func PermissionsFor(role model.Role) []Permission {
	var perms []Permission
	switch role {
	case model.RoleCoach:
		perms = coachPermissions
	case model.RoleRunner:
		perms = runnerPermissions
	case model.RoleAdmin:
		perms = adminPermissions
	default:
		perms = defaultPermissions
	}

	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
