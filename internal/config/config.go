package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	BackendURL   string
	StateDir     string
	HTTPTimeout  time.Duration

	// Stub backend settings, used by cmd/stubserver only.
	StubAddr          string
	StubDBPath        string
	StubUploadDir     string
	AdminEmail        string
	AdminPassword     string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg := &Config{}

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// Backend API base URL (default: local stub)
	cfg.BackendURL = getEnv("BACKEND_URL", "http://localhost:5000")

	// Directory for persisted session state (default: ~/.venue-admin)
	stateDir := getEnv("STATE_DIR", "")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".venue-admin")
	}
	cfg.StateDir = stateDir

	// HTTP client timeout, parse as time.Duration (e.g. "30s").
	timeoutStr := getEnv("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	// Stub backend settings
	cfg.StubAddr = getEnv("STUB_ADDR", ":5000")
	cfg.StubDBPath = getEnv("STUB_DB_PATH", "stub.db")
	cfg.StubUploadDir = getEnv("STUB_UPLOAD_DIR", "uploads")
	cfg.AdminEmail = getEnv("ADMIN_EMAIL", "admin@example.com")
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", "admin")

	// JWT secret is only required by the stub server; cmd/admin never signs.
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	ttlStr := getEnv("JWT_ACCESS_TOKEN_TTL", "12h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}
	cfg.JWTAccessTokenTTL = ttl

	// Bcrypt cost for the stub's seeded admin credential (default: 12)
	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}
