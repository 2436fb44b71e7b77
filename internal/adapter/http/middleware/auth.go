package middleware

import (
	"net/http"
	"strings"

	"github.com/iho/marathon-wallet/internal/domain"
)

// Trusted identity headers used when bearer auth is disabled and an upstream
// gateway has already authenticated the caller.
const (
	UserIDHeader   = "X-User-Id"
	UserRoleHeader = "X-User-Role"
)

// TokenVerifier turns a bearer token into the user it was issued to.
type TokenVerifier interface {
	Authenticate(token string) (*domain.User, error)
}

// AuthMiddleware creates an authentication middleware
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeJSONError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			user, err := verifier.Authenticate(strings.TrimSpace(parts[1]))
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(domain.ContextWithUser(r.Context(), user)))
		})
	}
}

// HeaderAuth trusts identity headers set by an upstream proxy.
func HeaderAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			writeJSONError(w, http.StatusUnauthorized, "missing user identity")
			return
		}

		role := domain.Role(r.Header.Get(UserRoleHeader))
		if !role.IsValid() {
			role = domain.RoleUser
		}

		user := &domain.User{ID: userID, Role: role}
		next.ServeHTTP(w, r.WithContext(domain.ContextWithUser(r.Context(), user)))
	})
}

// RequireRole creates a middleware that checks for a specific role
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := domain.UserFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if role == domain.RoleAdmin && user.Role != domain.RoleAdmin {
				writeJSONError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
