package config

import (
	"fmt"
	"os"
	"strconv"
)

// DeploymentMode selects between the full application and the
// production waitlist (coming soon) surface.
type DeploymentMode string

const (
	// ModeFull serves every API route.
	ModeFull DeploymentMode = "full"
	// ModeDemo serves only health/liveness; functional routes answer 503.
	ModeDemo DeploymentMode = "demo"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Addr    string
	Env     string
	Mode    DeploymentMode
	Version string

	// CORS
	ClientOrigin string

	// Database configuration
	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBMaxIdleTime  string

	// Identity provider configuration
	IdentityProvider string // "token" or "authorizer"
	IdentitySecret   string
	WebhookSecret    string
	AuthzURL         string
	AuthzClientID    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	env := getEnv("ENV", "development")

	cfg := &Config{
		Addr:             getEnv("ADDR", ":8080"),
		Env:              env,
		Mode:             ResolveDeploymentMode(env, os.Getenv("RAILWAY_ENVIRONMENT")),
		Version:          getEnv("VERSION", "1.0.0"),
		ClientOrigin:     getEnv("CLIENT_ORIGIN", "http://localhost:3000"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DBMaxOpenConns:   getEnvAsInt("DB_MAX_OPEN_CONNS", 30),
		DBMaxIdleConns:   getEnvAsInt("DB_MAX_IDLE_CONNS", 30),
		DBMaxIdleTime:    getEnv("DB_MAX_IDLE_TIME", "15m"),
		IdentityProvider: getEnv("IDENTITY_PROVIDER", "token"),
		IdentitySecret:   getEnv("IDENTITY_SECRET_KEY", ""),
		WebhookSecret:    getEnv("IDENTITY_WEBHOOK_SECRET", ""),
		AuthzURL:         getEnv("AUTHZ_URL", ""),
		AuthzClientID:    getEnv("AUTHZ_CLIENT_ID", ""),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	switch cfg.IdentityProvider {
	case "token":
		if cfg.IdentitySecret == "" {
			return nil, fmt.Errorf("IDENTITY_SECRET_KEY is required for the token provider")
		}
	case "authorizer":
		if cfg.AuthzURL == "" {
			return nil, fmt.Errorf("AUTHZ_URL is required for the authorizer provider")
		}
		if cfg.AuthzClientID == "" {
			return nil, fmt.Errorf("AUTHZ_CLIENT_ID is required for the authorizer provider")
		}
	default:
		return nil, fmt.Errorf("unsupported identity provider: %s", cfg.IdentityProvider)
	}

	return cfg, nil
}

// ResolveDeploymentMode decides the deployment mode exactly once at startup.
// Production deployments get the waitlist surface; staging and development
// get the full application. Staging wins over a platform environment that
// also claims production.
func ResolveDeploymentMode(env, platformEnv string) DeploymentMode {
	if env == "staging" || platformEnv == "staging" {
		return ModeFull
	}
	if env == "production" || platformEnv == "production" {
		return ModeDemo
	}
	return ModeFull
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
