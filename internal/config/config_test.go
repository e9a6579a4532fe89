package config

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("ADMIN_SIGNUP_TOKEN", "let-me-in")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	for _, key := range []string{"DATABASE_URL", "SERVER_ADDR", "SERVER_URL", "UPLOAD_DIR", "DEBUG", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "civicflow.db", cfg.DatabaseURL)
	assert.Equal(t, "localhost:8080", cfg.ServerAddr)
	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, []byte("0123456789abcdef0123456789abcdef"), cfg.JWTSecret)
	assert.Equal(t, "let-me-in", cfg.AdminSignupToken)
	assert.False(t, cfg.Debug)
	assert.Equal(t, []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://localhost:5500",
	}, cfg.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "postgres://app:pw@db:5432/civicflow")
	t.Setenv("SERVER_ADDR", "0.0.0.0:9090")
	t.Setenv("DEBUG", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://app:pw@db:5432/civicflow", cfg.DatabaseURL)
	assert.Equal(t, "0.0.0.0:9090", cfg.ServerAddr)
	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_SIGNUP_TOKEN", "let-me-in")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_InvalidSecret(t *testing.T) {
	t.Setenv("ADMIN_SIGNUP_TOKEN", "let-me-in")

	t.Run("not base64", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "!!not-base64!!")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("too short", func(t *testing.T) {
		t.Setenv("JWT_SECRET", base64.StdEncoding.EncodeToString([]byte("short")))
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 bytes")
	})
}

func TestLoad_MissingAdminSignupToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("ADMIN_SIGNUP_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_SIGNUP_TOKEN")
}
