package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pmholt/budgeteer/internal/infrastructure/auth"
)

// ContextKey is the type for context keys set by middleware.
type ContextKey string

const (
	// OwnerIDContextKey holds the authenticated user's ID. Every repository
	// query is scoped by it.
	OwnerIDContextKey ContextKey = "ownerID"

	// UsernameContextKey holds the authenticated user's username.
	UsernameContextKey ContextKey = "username"
)

// AuthMiddleware verifies the bearer token and puts the owner identity into
// the request context.
func AuthMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), OwnerIDContextKey, claims.UserID)
			ctx = context.WithValue(ctx, UsernameContextKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerIDFromContext extracts the authenticated owner ID from context.
func OwnerIDFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(OwnerIDContextKey).(string)

	return ownerID, ok && ownerID != ""
}
