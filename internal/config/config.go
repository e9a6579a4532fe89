package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// Config holds the application configuration.
// Loaded once at startup; safe for unsynchronized concurrent reads afterwards.
type Config struct {
	// Database connection string (DSN). SQLite paths and postgres:// URLs are both accepted.
	DatabaseURL string

	// Server bind address (host:port)
	ServerAddr string

	// Base URL used when building absolute upload URLs
	ServerURL string

	// JWTSecret is the decoded HMAC key material for token signing.
	// Configured as base64 via JWT_SECRET; never logged.
	JWTSecret []byte

	// AdminSignupToken gates registration of privileged roles (official/admin).
	AdminSignupToken string

	// CORSAllowedOrigins lists the frontend origins allowed to call the API.
	CORSAllowedOrigins []string

	// UploadDir is where issue images are written by the local uploader.
	UploadDir string

	// Enable debug logging
	Debug bool
}

// Load reads configuration from environment variables with fallback defaults.
// JWT_SECRET and ADMIN_SIGNUP_TOKEN have no defaults; the server refuses to
// boot without them so a deployment can never run with a guessable secret.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      getEnv("DATABASE_URL", "civicflow.db"),
		ServerAddr:       getEnv("SERVER_ADDR", "localhost:8080"),
		ServerURL:        getEnv("SERVER_URL", "http://localhost:8080"),
		AdminSignupToken: getEnv("ADMIN_SIGNUP_TOKEN", ""),
		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
		Debug:            getEnvBool("DEBUG", false),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:5500",
		}),
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required (base64-encoded HMAC key)")
	}
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("JWT_SECRET must be valid base64: %w", err)
	}
	if len(key) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must decode to at least 32 bytes, got %d", len(key))
	}
	cfg.JWTSecret = key

	if cfg.AdminSignupToken == "" {
		return nil, fmt.Errorf("ADMIN_SIGNUP_TOKEN is required")
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getEnvList retrieves a comma-separated environment variable or returns a default value
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
