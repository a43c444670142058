package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"APP_ENV", "HTTP_ADDR", "CORS_ORIGINS", "STORAGE_DRIVER", "DB_PATH", "DATABASE_URL",
	"JWT_SECRET", "JWT_ISSUER", "TOKEN_TTL", "OTP_TTL", "REDIS_ADDR", "SMTP_HOST", "SMTP_PORT",
	"SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_FROM", "NOTIFY_WORKERS", "NOTIFY_QUEUE",
}

// clearEnv blanks every key Load reads so a developer's .env or shell does
// not leak into the test. Empty values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
	assert.Equal(t, "./data/settleup.db", cfg.DBPath)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "settleup", cfg.JWTIssuer)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 4, cfg.NotifyWorkers)
	assert.Equal(t, 64, cfg.NotifyQueue)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.SMTPEnabled())
	assert.False(t, cfg.Development())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/settleup")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("JWT_ISSUER", "settleup-staging")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("NOTIFY_WORKERS", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "settleup-staging", cfg.JWTIssuer)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.SMTPEnabled())
	assert.Equal(t, 8, cfg.NotifyWorkers)
}

func TestLoadDevelopmentSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"postgres without url", map[string]string{"JWT_SECRET": "s", "STORAGE_DRIVER": "postgres"}},
		{"unknown driver", map[string]string{"JWT_SECRET": "s", "STORAGE_DRIVER": "mysql"}},
		{"bad duration", map[string]string{"JWT_SECRET": "s", "OTP_TTL": "soon"}},
		{"negative duration", map[string]string{"JWT_SECRET": "s", "TOKEN_TTL": "-1h"}},
		{"bad port", map[string]string{"JWT_SECRET": "s", "SMTP_PORT": "smtp"}},
		{"zero workers", map[string]string{"JWT_SECRET": "s", "NOTIFY_WORKERS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
