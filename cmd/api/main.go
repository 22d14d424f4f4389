package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-email-verification/internal/config"
	"github.com/go-email-verification/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-email-verification/internal/infrastructure/jwt"
	"github.com/go-email-verification/internal/infrastructure/mail"
	transporthttp "github.com/go-email-verification/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx := context.Background()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("dynamodb client: %v", err)
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	mailer, err := mail.New(cfg)
	if err != nil {
		log.Fatalf("mail transport: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		VerificationRepo: dynamo.NewEmailVerificationRepo(dynamoClient, cfg.DynamoTables.EmailVerifications),
		Confirmer:        dynamo.NewEmailConfirmer(dynamoClient, cfg.DynamoTables),
		Mailer:           mailer,
	}

	// JWT provider (optional: verification still works without keys, it just issues no token).
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		deps.TokenProvider = p
	} else {
		slog.Warn("JWT provider not available", "err", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "mail_service", cfg.MailService)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	slog.Info("server stopped")
}
