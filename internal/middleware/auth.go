package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserKey  contextKey = "user_id"
	TokenKey contextKey = "token"
)

// unauthenticatedPaths are served without a bearer token
var unauthenticatedPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// BearerAuth validates the bearer token from the Authorization header and
// resolves it to a user id. tokens maps token -> user id.
func BearerAuth(tokens map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if unauthenticatedPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			// Support both "Bearer <token>" and "<token>" formats
			token := strings.TrimPrefix(auth, "Bearer ")
			token = strings.TrimSpace(token)

			if token == "" {
				http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			// Constant-time comparison to prevent timing attacks
			valid := false
			var userID string
			for t, uid := range tokens {
				if subtle.ConstantTimeCompare([]byte(token), []byte(t)) == 1 {
					valid = true
					userID = uid
					break
				}
			}

			if !valid {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, userID)
			ctx = context.WithValue(ctx, TokenKey, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the authenticated user id from context
func GetUserFromContext(ctx context.Context) string {
	if userID, ok := ctx.Value(UserKey).(string); ok {
		return userID
	}
	return ""
}
