package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-email-verification/internal/application/verification"
	"github.com/go-email-verification/internal/config"
	"github.com/go-email-verification/internal/infrastructure/mail"
	"github.com/go-email-verification/internal/transport/http/handler"
	appmiddleware "github.com/go-email-verification/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         UserRepository
	VerificationRepo VerificationRepository
	Confirmer        EmailConfirmer
	Mailer           mail.Mailer
	// TokenProvider is optional; without it verification succeeds but no token is issued.
	TokenProvider TokenProvider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.NewMetrics(prometheus.DefaultRegisterer).Collect)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	verificationSvc := verification.NewService(verification.ServiceDeps{
		Mailer:           deps.Mailer,
		UserRepo:         deps.UserRepo,
		VerificationRepo: deps.VerificationRepo,
		Confirmer:        deps.Confirmer,
		ClientURL:        cfg.ClientURL,
		CodeTTL:          cfg.CodeTTL,
	})

	tokenH := handler.NewTokenHandler(nil)
	authMw := func(next http.Handler) http.Handler { return next }
	if deps.TokenProvider != nil {
		tokenH = handler.NewTokenHandler(deps.TokenProvider)
		authMw = appmiddleware.Auth(deps.TokenProvider)
	}

	healthH := handler.NewHealthHandler(deps.Mailer)
	emailH := handler.NewEmailVerificationHandler(verificationSvc)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Check)

		r.Route("/email-verification", func(r chi.Router) {
			r.Post("/request", emailH.Request)
			r.With(emailH.Verify).Get("/verify", tokenH.Issue)
			r.With(authMw).Get("/token", tokenH.Claims)
		})
	})

	return r
}
