package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Mail transports selectable with MAIL_SERVICE.
const (
	MailServiceSMTP     = "smtp"
	MailServiceGmail    = "gmail"
	MailServiceSendGrid = "sendgrid"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel slog.Level

	// ClientURL is the base URL of the web client that serves the verification page.
	ClientURL string
	CodeTTL   time.Duration // 0 disables expiry

	MailService            string
	MailFromName           string
	SMTPHost               string
	SMTPPort               string
	SMTPFrom               string
	SMTPUsername           string
	SMTPPassword           string
	SMTPInsecureSkipVerify bool
	SendGridAPIKey         string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users              string
	EmailVerifications string
	UserPreferences    string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		AppPort:  getEnv("APP_PORT", "3000"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnvLevel("LOG_LEVEL", slog.LevelInfo),

		ClientURL: strings.TrimRight(getEnv("CLIENT_URL", "http://localhost:5173"), "/"),
		CodeTTL:   getEnvDuration("CODE_TTL", 24*time.Hour),

		MailService:            strings.ToLower(getEnv("MAIL_SERVICE", MailServiceSMTP)),
		MailFromName:           getEnv("MAIL_FROM_NAME", "SocialEcho"),
		SMTPHost:               getEnv("SMTP_HOST", "localhost"),
		SMTPPort:               getEnv("SMTP_PORT", "1025"),
		SMTPFrom:               getEnv("SMTP_FROM", ""),
		SMTPUsername:           getEnv("SMTP_USERNAME", ""),
		SMTPPassword:           getEnv("SMTP_PASSWORD", ""),
		SMTPInsecureSkipVerify: getEnvBool("SMTP_INSECURE_SKIP_VERIFY", false),
		SendGridAPIKey:         getEnv("SENDGRID_API_KEY", ""),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:              getEnv("DYNAMO_TABLE_USERS", "users"),
			EmailVerifications: getEnv("DYNAMO_TABLE_EMAIL_VERIFICATIONS", "email_verifications"),
			UserPreferences:    getEnv("DYNAMO_TABLE_USER_PREFERENCES", "user_preferences"),
		},

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 7*24*time.Hour),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}

	// Gmail only needs credentials; the account doubles as the sender.
	if cfg.MailService == MailServiceGmail {
		cfg.SMTPHost = "smtp.gmail.com"
		cfg.SMTPPort = "587"
	}
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUsername
	}
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = "noreply@example.com"
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("15m", "24h") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func getEnvLevel(key string, fallback slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		return fallback
	}
	return lvl
}
