package http

import (
	"context"

	"github.com/go-email-verification/internal/domain"
	jwtinfra "github.com/go-email-verification/internal/infrastructure/jwt"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// VerificationRepository is the minimal interface the router requires from a verification store.
type VerificationRepository interface {
	Put(ctx context.Context, v *domain.EmailVerification) error
	Get(ctx context.Context, email, purpose string) (*domain.EmailVerification, error)
	Delete(ctx context.Context, email, purpose string) error
}

// EmailConfirmer commits a verified email: user flag, consumed code and default preference together.
type EmailConfirmer interface {
	ConfirmEmail(ctx context.Context, userID string, v *domain.EmailVerification, pref *domain.UserPreference) (*domain.User, error)
}

// TokenProvider signs access tokens for verified users and checks them on protected routes.
type TokenProvider interface {
	Sign(userID, email string) (string, error)
	Verify(tokenStr string) (*jwtinfra.Claims, error)
}
