// Package service contains the business logic layer. Handlers parse HTTP
// and write envelopes; services validate and orchestrate; repositories
// talk to the store.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chayanin/runtrack-backend/internal/apperror"
	"github.com/chayanin/runtrack-backend/internal/auth"
	"github.com/chayanin/runtrack-backend/internal/model"
	"github.com/chayanin/runtrack-backend/internal/repository"
)

// AuthService orchestrates login: OAuth provisioning, credentials
// verification, and token issuance.
type AuthService struct {
	users       repository.UserRepository
	tokens      *auth.TokenService
	passwords   *auth.PasswordService
	defaultRole model.Role
	logger      *slog.Logger
}

// NewAuthService creates an AuthService. defaultRole is the provisioning
// policy for first-time OAuth logins; anything invalid falls back to
// runner.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	defaultRole model.Role,
	logger *slog.Logger,
) *AuthService {
	if !defaultRole.Valid() {
		defaultRole = model.RoleRunner
	}
	return &AuthService{
		users:       users,
		tokens:      tokens,
		passwords:   passwords,
		defaultRole: defaultRole,
		logger:      logger,
	}
}

// AuthResult bundles the authenticated user with the issued session token.
type AuthResult struct {
	User  *model.User
	Token string
}

// LoginOrRegisterGoogle completes the OAuth callback: upsert the user by
// email (first login provisions the account with the default role) and
// issue a session token reflecting the stored role.
func (s *AuthService) LoginOrRegisterGoogle(ctx context.Context, gUser *auth.GoogleUser) (*AuthResult, error) {
	if gUser == nil {
		return nil, fmt.Errorf("service/auth: Google user must not be nil")
	}

	user := &model.User{
		GoogleID:  gUser.Sub,
		Email:     gUser.Email,
		Name:      gUser.Name,
		AvatarURL: gUser.Picture,
		Role:      s.defaultRole,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user %s: %w", gUser.Email, err)
	}

	s.logger.Info("user authenticated via Google",
		slog.String("userID", user.ID),
		slog.String("role", string(user.Role)),
	)

	token, err := s.tokens.Generate(auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// LoginWithPassword authenticates a credentials account. The error for a
// missing account and a wrong password is the same on purpose.
func (s *AuthService) LoginWithPassword(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil || user.PasswordHash == "" || !s.passwords.Verify(user.PasswordHash, password) {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Generate(auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user authenticated via credentials", slog.String("userID", user.ID))
	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the full user record for an authenticated session.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.Unauthorized("")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}
	return user, nil
}
