package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer   string   // Issuer claim for session tokens
	Audience []string // Audience claim for session tokens (optional)

	DatabaseFile   string // Path to SQLite database file (default: ./account.db)
	PepperFile     string // Path to pepper file for password hashing (default: ./pepper)
	SessionKeyFile string // Path to PKCS8 PEM Ed25519 key; empty means an ephemeral key per boot

	SessionTTL     time.Duration // Session token lifetime (default: 720h)
	OTPTTL         time.Duration // One-time code lifetime (default: 15m)
	ResendInterval time.Duration // Minimum gap between codes for the same user (default: 60s)
	OTPDigits      int           // Code length (default: 6)

	MailerMode string // "smtp" or "log" (default: log)
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	MailFrom   string

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-code cleanup interval (default: 1h)
}

func LoadConfig() Config {
	// Load .env if present; real env always wins.
	_ = godotenv.Load()

	cfg := Config{
		Issuer:         getEnvOrDefault("ACCOUNT_ISSUER", "inkwell-account"),
		DatabaseFile:   getEnvOrDefault("ACCOUNT_DATABASE_FILE", "account.db"),
		PepperFile:     getEnvOrDefault("ACCOUNT_PEPPER_FILE", "pepper"),
		SessionKeyFile: os.Getenv("ACCOUNT_SESSION_KEY_FILE"),

		SessionTTL:     getEnvDurationOrDefault("ACCOUNT_SESSION_TTL", 30*24*time.Hour),
		OTPTTL:         getEnvDurationOrDefault("ACCOUNT_OTP_TTL", 15*time.Minute),
		ResendInterval: getEnvDurationOrDefault("ACCOUNT_RESEND_INTERVAL", 60*time.Second),
		OTPDigits:      getEnvIntOrDefault("ACCOUNT_OTP_DIGITS", 6),

		MailerMode: getEnvOrDefault("ACCOUNT_MAILER", "log"),
		SMTPHost:   os.Getenv("SMTP_HOST"),
		SMTPPort:   getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASS"),
		MailFrom:   os.Getenv("MAIL_FROM"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if aud := os.Getenv("ACCOUNT_AUDIENCE"); aud != "" {
		for _, a := range strings.Split(aud, ",") {
			if a = strings.TrimSpace(a); a != "" {
				cfg.Audience = append(cfg.Audience, a)
			}
		}
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
