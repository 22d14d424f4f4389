package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "MAIL_SERVICE", "CODE_TTL", "SMTP_FROM", "SMTP_USERNAME", "DYNAMO_TABLE_EMAIL_VERIFICATIONS", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, MailServiceSMTP, cfg.MailService)
	assert.Equal(t, 24*time.Hour, cfg.CodeTTL)
	assert.Equal(t, "noreply@example.com", cfg.SMTPFrom)
	assert.Equal(t, "email_verifications", cfg.DynamoTables.EmailVerifications)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_GmailPreset(t *testing.T) {
	t.Setenv("MAIL_SERVICE", "Gmail")
	t.Setenv("SMTP_HOST", "ignored.example.com")
	t.Setenv("SMTP_USERNAME", "sender@gmail.com")
	t.Setenv("SMTP_FROM", "")

	cfg := Load()
	assert.Equal(t, MailServiceGmail, cfg.MailService)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, "587", cfg.SMTPPort)
	assert.Equal(t, "sender@gmail.com", cfg.SMTPFrom)
}

func TestLoad_ClientURLTrailingSlashTrimmed(t *testing.T) {
	t.Setenv("CLIENT_URL", "https://app.example.com/")
	assert.Equal(t, "https://app.example.com", Load().ClientURL)
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("X_DUR", "15m")
	assert.Equal(t, 15*time.Minute, getEnvDuration("X_DUR", time.Hour))

	t.Setenv("X_DUR", "90")
	assert.Equal(t, 90*time.Second, getEnvDuration("X_DUR", time.Hour))

	t.Setenv("X_DUR", "0")
	assert.Equal(t, time.Duration(0), getEnvDuration("X_DUR", time.Hour))

	t.Setenv("X_DUR", "soon")
	assert.Equal(t, time.Hour, getEnvDuration("X_DUR", time.Hour))
}

func TestGetEnvLevel(t *testing.T) {
	t.Setenv("X_LEVEL", "debug")
	assert.Equal(t, slog.LevelDebug, getEnvLevel("X_LEVEL", slog.LevelInfo))

	t.Setenv("X_LEVEL", "loud")
	assert.Equal(t, slog.LevelInfo, getEnvLevel("X_LEVEL", slog.LevelInfo))
}
