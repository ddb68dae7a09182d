package auth

import (
	"context"
	"net/http"

	"github.com/chayanin/runtrack-backend/internal/authz"
)

// contextKey is unexported so only this package can place identity values
// in a request context.
type contextKey string

const identityKey contextKey = "identity"

const unauthorizedBody = `{"success":false,"error":{"message":"authentication required","code":"UNAUTHORIZED"}}`

// RequireAuth resolves the session identity from the "token" cookie or an
// Authorization bearer header and stores it in the request context. A
// missing or invalid token ends the request with a 401 envelope before
// any handler or store call runs.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := resolveIdentity(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(unauthorizedBody))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PathGate applies the path-based access rules to page routes. Failures
// are surfaced as redirects, not error bodies: anonymous users go to the
// landing page, authenticated users with the wrong role go to their
// dashboard. Paths outside the rule table pass through untouched.
func PathGate(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			class := authz.Classify(r.URL.Path)
			if class == authz.ClassPublic {
				next.ServeHTTP(w, r)
				return
			}

			id, err := resolveIdentity(r, tokens)
			if err != nil {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			if !authz.Allowed(class, id.Role, true) {
				http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// resolveIdentity reads the session token from the cookie set by the
// OAuth callback, falling back to an Authorization bearer header for API
// clients, and validates it.
func resolveIdentity(r *http.Request, tokens *TokenService) (Identity, error) {
	tokenStr := ""
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		tokenStr = cookie.Value
	} else if h := r.Header.Get("Authorization"); len(h) > 7 && h[:7] == "Bearer " {
		tokenStr = h[7:]
	}
	if tokenStr == "" {
		return Identity{}, http.ErrNoCookie
	}
	return tokens.Validate(tokenStr)
}
