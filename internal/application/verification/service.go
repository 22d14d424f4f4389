package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-email-verification/internal/domain"
	"github.com/go-email-verification/internal/infrastructure/mail"
	"github.com/go-email-verification/internal/pkg/code"
	"github.com/go-email-verification/internal/pkg/mailtmpl"
	"github.com/go-email-verification/internal/pkg/validate"
	"golang.org/x/sync/errgroup"
)

const subject = "Verify your email address"

type IssueRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,max=100"`
}

type VerifyRequest struct {
	Email string `query:"email" validate:"required,email"`
	Code  string `query:"code" validate:"required,len=5"`
}

type Service interface {
	// Issue mails a fresh code to req.Email and replaces any pending code for that address.
	Issue(ctx context.Context, req IssueRequest) error
	// Verify consumes the pending code for req.Email and returns the now verified user.
	Verify(ctx context.Context, req VerifyRequest) (*domain.User, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.EmailVerification) error
	Get(ctx context.Context, email, purpose string) (*domain.EmailVerification, error)
	Delete(ctx context.Context, email, purpose string) error
}

type confirmer interface {
	ConfirmEmail(ctx context.Context, userID string, v *domain.EmailVerification, pref *domain.UserPreference) (*domain.User, error)
}

// ServiceDeps groups the collaborators of the verification service.
type ServiceDeps struct {
	Mailer           mail.Mailer
	UserRepo         userStore
	VerificationRepo verificationStore
	Confirmer        confirmer
	// ClientURL is the web client origin the verification link points at.
	ClientURL string
	// CodeTTL bounds how long an issued code stays usable; 0 means forever.
	CodeTTL time.Duration
}

type service struct {
	mailer        mail.Mailer
	users         userStore
	verifications verificationStore
	confirmer     confirmer
	clientURL     string
	codeTTL       time.Duration
	now           func() time.Time
}

func NewService(deps ServiceDeps) Service {
	return &service{
		mailer:        deps.Mailer,
		users:         deps.UserRepo,
		verifications: deps.VerificationRepo,
		confirmer:     deps.Confirmer,
		clientURL:     deps.ClientURL,
		codeTTL:       deps.CodeTTL,
		now:           time.Now,
	}
}

// BuildLink returns the client page that submits code for email.
func BuildLink(clientURL string, c int, email string) string {
	q := url.Values{}
	q.Set("code", fmt.Sprint(c))
	q.Set("email", email)
	return clientURL + "/auth/verify?" + q.Encode()
}

func (s *service) Issue(ctx context.Context, req IssueRequest) error {
	err := s.issue(ctx, req)
	if err != nil {
		codesIssued.WithLabelValues(resultError).Inc()
		return err
	}
	codesIssued.WithLabelValues(resultOK).Inc()
	return nil
}

func (s *service) issue(ctx context.Context, req IssueRequest) error {
	email := validate.NormalizeEmail(req.Email)

	c, err := code.Generate()
	if err != nil {
		return err
	}
	if err := s.mailer.Verify(ctx); err != nil {
		return fmt.Errorf("mail transport not ready: %w", err)
	}
	html, err := mailtmpl.VerifyEmailHTML(req.Name, BuildLink(s.clientURL, c, email), c)
	if err != nil {
		return err
	}
	messageID, err := s.mailer.Send(ctx, mail.Message{
		To:      email,
		ToName:  req.Name,
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	now := s.now().UTC()
	v := &domain.EmailVerification{
		Email:            email,
		Purpose:          domain.PurposeSignup,
		VerificationCode: c,
		MessageID:        messageID,
		CreatedAt:        now,
	}
	if s.codeTTL > 0 {
		v.ExpiresAt = now.Add(s.codeTTL).Unix()
	}
	if err := s.verifications.Put(ctx, v); err != nil {
		return err
	}
	slog.Info("verification code issued", "email", email, "message_id", messageID)
	return nil
}

func (s *service) Verify(ctx context.Context, req VerifyRequest) (*domain.User, error) {
	u, err := s.verify(ctx, req)
	verifications.WithLabelValues(outcome(err)).Inc()
	return u, err
}

func (s *service) verify(ctx context.Context, req VerifyRequest) (*domain.User, error) {
	email := validate.NormalizeEmail(req.Email)

	var (
		user   *domain.User
		record *domain.EmailVerification
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.GetByEmail(gctx, email)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		user = u
		return nil
	})
	g.Go(func() error {
		v, err := s.verifications.Get(gctx, email, domain.PurposeSignup)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		record = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if user != nil && user.IsEmailVerified {
		return nil, domain.ErrAlreadyVerified
	}
	if record == nil {
		return nil, domain.ErrInvalidCode
	}
	now := s.now()
	if record.Expired(now) {
		// TTL deletion lags, so drop the record now; failing to do so only leaves it for TTL.
		if err := s.verifications.Delete(ctx, email, domain.PurposeSignup); err != nil {
			slog.Warn("delete expired verification", "email", email, "err", err)
		}
		return nil, domain.ErrInvalidCode
	}
	c, ok := code.Parse(req.Code)
	if !ok || !record.Matches(c) {
		return nil, domain.ErrInvalidCode
	}
	if user == nil {
		return nil, fmt.Errorf("user with email %s: %w", email, domain.ErrNotFound)
	}

	verified, err := s.confirmer.ConfirmEmail(ctx, user.UserID, record, domain.DefaultPreference(user.UserID, now.UTC()))
	if err != nil {
		return nil, err
	}
	slog.Info("email verified", "email", email, "user_id", verified.UserID)
	return verified, nil
}
