package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chayanin/runtrack-backend/internal/apperror"
	"github.com/chayanin/runtrack-backend/internal/model"
	"github.com/chayanin/runtrack-backend/internal/repository"
)

// ProfileService reads and updates the caller's own profile, always
// scoped by the session email.
type ProfileService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(users repository.UserRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{users: users, logger: logger}
}

// ProfileUpdateRequest carries the mutable fields of a profile PUT. Nil
// fields are not touched.
type ProfileUpdateRequest struct {
	Name       *string  `json:"name,omitempty"`
	WeightKg   *float64 `json:"weightKg,omitempty"`
	HeightCm   *float64 `json:"heightCm,omitempty"`
	Experience *string  `json:"experience,omitempty"`
	Goals      *string  `json:"goals,omitempty"`
}

// Get returns the profile of the user identified by email.
func (s *ProfileService) Get(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("service/profile: fetching profile %s: %w", email, err)
	}
	return user, nil
}

// Update validates and applies a partial profile update for the user
// identified by email. Validation failures return before any store call.
func (s *ProfileService) Update(ctx context.Context, email string, req ProfileUpdateRequest) (*model.User, error) {
	details := map[string]string{}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		details["name"] = "name must not be empty"
	}
	if req.WeightKg != nil && (*req.WeightKg <= 0 || *req.WeightKg > 500) {
		details["weightKg"] = "weightKg must be between 0 and 500"
	}
	if req.HeightCm != nil && (*req.HeightCm <= 0 || *req.HeightCm > 300) {
		details["heightCm"] = "heightCm must be between 0 and 300"
	}
	if len(details) > 0 {
		return nil, apperror.Validation(details)
	}

	upd := repository.ProfileUpdate{Name: req.Name}
	if req.WeightKg != nil || req.HeightCm != nil || req.Experience != nil || req.Goals != nil {
		upd.Profile = &model.Profile{
			WeightKg:   req.WeightKg,
			HeightCm:   req.HeightCm,
			Experience: req.Experience,
			Goals:      req.Goals,
		}
	}

	user, err := s.users.UpdateProfile(ctx, email, upd)
	if err != nil {
		return nil, fmt.Errorf("service/profile: updating profile %s: %w", email, err)
	}

	s.logger.Info("profile updated", slog.String("userID", user.ID))
	return user, nil
}
