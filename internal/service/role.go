package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chayanin/runtrack-backend/internal/authz"
	"github.com/chayanin/runtrack-backend/internal/model"
	"github.com/chayanin/runtrack-backend/internal/repository"
)

// RoleInfo is the response body of GET /api/users/role: the subject's
// role and permission set, enriched with the coach summary (runners with
// an assigned coach) or the assigned runner list (coaches).
type RoleInfo struct {
	UserID      string              `json:"userId"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Role        model.Role          `json:"role"`
	Permissions []authz.Permission  `json:"permissions"`
	Coach       *model.UserSummary  `json:"coach,omitempty"`
	Runners     []model.UserSummary `json:"runners,omitempty"`
}

// RoleService resolves role info for the current user.
type RoleService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewRoleService creates a RoleService.
func NewRoleService(users repository.UserRepository, logger *slog.Logger) *RoleService {
	return &RoleService{users: users, logger: logger}
}

// Info builds the role response for the given user ID. The coach and
// runner relations are joined against the identity store at read time so
// the response always reflects the current assignment.
func (s *RoleService) Info(ctx context.Context, userID string) (*RoleInfo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/role: fetching user %s: %w", userID, err)
	}

	info := &RoleInfo{
		UserID:      user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Permissions: authz.PermissionsFor(user.Role),
	}

	switch {
	case user.Role == model.RoleRunner && user.CoachID != "":
		coach, err := s.users.GetByID(ctx, user.CoachID)
		if err != nil {
			// A dangling coach reference should not break the role
			// response; the runner just has no coach to show.
			s.logger.Warn("coach reference did not resolve",
				slog.String("userID", user.ID),
				slog.String("coachID", user.CoachID),
			)
			break
		}
		summary := coach.Summary()
		summary.Role = ""
		info.Coach = &summary

	case user.Role == model.RoleCoach:
		runners, err := s.users.ListByCoach(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("service/role: listing runners for coach %s: %w", user.ID, err)
		}
		info.Runners = make([]model.UserSummary, len(runners))
		for i := range runners {
			info.Runners[i] = runners[i].Summary()
		}
	}

	return info, nil
}
