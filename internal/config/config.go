// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	// Environment
	AppEnv string

	// Web Server
	HTTPAddr    string
	CORSOrigins []string

	// Storage
	StorageDriver string
	DBPath        string
	DatabaseURL   string

	// Session
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration
	OTPTTL    time.Duration

	// Pending signups live in Redis when set, in memory otherwise.
	RedisAddr string

	// SMTP; mail is logged instead of sent when SMTPHost is empty.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// Notifications
	NotifyWorkers int
	NotifyQueue   int
}

// Development reports whether APP_ENV is development.
func (c *Config) Development() bool {
	return c.AppEnv == "development"
}

// SMTPEnabled reports whether an SMTP relay is configured.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:        getEnvDefault("APP_ENV", "production"),
		HTTPAddr:      getEnvDefault("HTTP_ADDR", ":8080"),
		CORSOrigins:   splitList(getEnvDefault("CORS_ORIGINS", "http://localhost:3000")),
		StorageDriver: strings.ToLower(getEnvDefault("STORAGE_DRIVER", DriverSQLite)),
		DBPath:        getEnvDefault("DB_PATH", "./data/settleup.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTIssuer:     getEnvDefault("JWT_ISSUER", "settleup"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:      getEnvDefault("SMTP_FROM", "SettleUp <no-reply@settleup.local>"),
	}

	var err error
	if cfg.TokenTTL, err = durationEnv("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.OTPTTL, err = durationEnv("OTP_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = intEnv("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.NotifyWorkers, err = intEnv("NOTIFY_WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.NotifyQueue, err = intEnv("NOTIFY_QUEUE", 64); err != nil {
		return nil, err
	}

	switch cfg.StorageDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER must be %s or %s, got %q", DriverSQLite, DriverPostgres, cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" {
		if !cfg.Development() {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
		cfg.JWTSecret = "dev-only-change-me"
	}
	if cfg.NotifyWorkers < 1 {
		return nil, fmt.Errorf("NOTIFY_WORKERS must be at least 1")
	}
	if cfg.NotifyQueue < 0 {
		return nil, fmt.Errorf("NOTIFY_QUEUE cannot be negative")
	}

	return cfg, nil
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, value)
	}
	return d, nil
}

func intEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
