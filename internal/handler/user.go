package handler

import (
	"net/http"

	"github.com/chayanin/runtrack-backend/internal/apperror"
	"github.com/chayanin/runtrack-backend/internal/auth"
	"github.com/chayanin/runtrack-backend/internal/service"
)

// UserHandler serves role info and the caller's own profile. Profile
// operations are always scoped by the session email; there is no way to
// read or write another user's profile through these routes.
type UserHandler struct {
	roles     *service.RoleService
	profiles  *service.ProfileService
	responder *Responder
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(roles *service.RoleService, profiles *service.ProfileService, responder *Responder) *UserHandler {
	return &UserHandler{roles: roles, profiles: profiles, responder: responder}
}

// HandleRole returns the caller's role, permission set, and the coach or
// runner enrichment.
//
// HTTP: GET /api/users/role
func (h *UserHandler) HandleRole(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.responder.Error(w, apperror.Unauthorized(""))
		return
	}

	info, err := h.roles.Info(r.Context(), id.UserID)
	if err != nil {
		h.responder.Error(w, err)
		return
	}
	h.responder.OK(w, "", info)
}

// HandleGetProfile returns the caller's profile.
//
// HTTP: GET /api/users/profile
func (h *UserHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.responder.Error(w, apperror.Unauthorized(""))
		return
	}

	user, err := h.profiles.Get(r.Context(), id.Email)
	if err != nil {
		h.responder.Error(w, err)
		return
	}
	h.responder.OK(w, "", user)
}

// HandlePutProfile applies a partial update to the caller's profile.
//
// HTTP: PUT /api/users/profile
func (h *UserHandler) HandlePutProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.responder.Error(w, apperror.Unauthorized(""))
		return
	}

	var req service.ProfileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.responder.Error(w, err)
		return
	}

	user, err := h.profiles.Update(r.Context(), id.Email, req)
	if err != nil {
		h.responder.Error(w, err)
		return
	}
	h.responder.OK(w, "profile updated", user)
}
