package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"

	"github.com/chayanin/runtrack-backend/internal/apperror"
	"github.com/chayanin/runtrack-backend/internal/auth"
	"github.com/chayanin/runtrack-backend/internal/service"
)

const sessionCookieAge = 24 * time.Hour

// AuthHandler manages the Google OAuth flow, the credentials login, and
// session cookies.
type AuthHandler struct {
	google    *auth.GoogleProvider
	authSvc   *service.AuthService
	responder *Responder
	logger    *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(google *auth.GoogleProvider, authSvc *service.AuthService, responder *Responder, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{google: google, authSvc: authSvc, responder: responder, logger: logger}
}

// HandleGoogleLogin redirects the browser to Google's authorization page.
//
// HTTP: GET /auth/google/login
//
// The random state lands in a short-lived HttpOnly cookie; the callback
// verifies it to block CSRF-initiated flows.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGoogleCallback completes the OAuth login.
//
// HTTP: GET /auth/google/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		h.responder.Error(w, apperror.Unauthorized("invalid OAuth state"))
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: "", Path: "/", MaxAge: -1})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.responder.Error(w, apperror.InvalidArgument("code", "missing OAuth code"))
		return
	}

	gUser, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: Google exchange failed", slog.String("error", err.Error()))
		h.responder.Error(w, apperror.Internal(err))
		return
	}

	result, err := h.authSvc.LoginOrRegisterGoogle(r.Context(), gUser)
	if err != nil {
		h.responder.Error(w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleLogin authenticates a credentials account.
//
// HTTP: POST /auth/login {"email": "...", "password": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.responder.Error(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		h.responder.Error(w, apperror.Validation(map[string]string{
			"email":    "email is required",
			"password": "password is required",
		}))
		return
	}

	result, err := h.authSvc.LoginWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		h.responder.Error(w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	h.responder.OK(w, "login successful", map[string]any{
		"token": result.Token,
		"user":  result.User,
	})
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.responder.OK(w, "logged out", nil)
}

// HandleMe returns the current user's record.
//
// HTTP: GET /api/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.responder.Error(w, apperror.Unauthorized(""))
		return
	}

	user, err := h.authSvc.GetUserByID(r.Context(), id.UserID)
	if err != nil {
		h.responder.Error(w, err)
		return
	}
	h.responder.OK(w, "", user)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionCookieAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
