// Package middleware provides HTTP middlewares for authentication, request
// logging and rate limiting.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/atinyakov/GophTodo/internal/models"
	"github.com/atinyakov/GophTodo/internal/service"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	Parse(token string) (*service.Claims, error)
}

// BearerAuth is a middleware that enforces JWT bearer authentication.
//
// It expects an "Authorization: Bearer <token>" header. On success the token's
// claims are stored in the request context so handlers can read the
// authenticated user ID with GetUserIDFromContext. Missing, malformed,
// badly signed or expired tokens are rejected with 401.
func BearerAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Authorization")

			parts := strings.Fields(r.Header.Get("Authorization"))
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, "missing or malformed Authorization header", http.StatusUnauthorized)
				return
			}
			claims, err := tokens.Parse(parts[1])
			if err != nil {
				writeError(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePrivilege rejects authenticated requests whose token lacks p with 403.
// It must run after BearerAuth.
func RequirePrivilege(p models.Privilege) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaimsFromContext(r.Context())
			if claims == nil {
				writeError(w, "unauthenticated", http.StatusUnauthorized)
				return
			}
			if !claims.HasPrivilege(p) {
				writeError(w, "access denied", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClaimsFromContext returns the verified token claims, or nil.
func GetClaimsFromContext(ctx context.Context) *service.Claims {
	c, _ := ctx.Value(claimsKey).(*service.Claims)
	return c
}

// GetUserIDFromContext extracts the authenticated user ID from the request
// context. Returns 0 if not found.
func GetUserIDFromContext(ctx context.Context) int64 {
	if c := GetClaimsFromContext(ctx); c != nil {
		return c.UserID
	}
	return 0
}

// WithClaims stores claims in ctx the way BearerAuth does.
func WithClaims(ctx context.Context, c *service.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func writeError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
