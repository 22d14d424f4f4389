package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-email-verification/internal/domain"
	jwtinfra "github.com/go-email-verification/internal/infrastructure/jwt"
)

type contextKey string

const (
	ClaimsKey       contextKey = "claims"
	VerifiedUserKey contextKey = "verified_user"
)

type tokenVerifier interface {
	Verify(tokenStr string) (*jwtinfra.Claims, error)
}

// Auth returns middleware that validates the Bearer JWT and injects claims into context.
func Auth(provider tokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			claims, err := provider.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts JWT claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*jwtinfra.Claims)
	return c, ok
}

// WithVerifiedUser returns a copy of ctx carrying the user whose email was just verified.
func WithVerifiedUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, VerifiedUserKey, u)
}

// VerifiedUserFromContext extracts the user stored by WithVerifiedUser.
func VerifiedUserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(VerifiedUserKey).(*domain.User)
	return u, ok && u != nil
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
