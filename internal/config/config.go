package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds the application configuration
type Config struct {
	// Database connection string (DSN)
	DatabaseURL string

	// Server bind address (host:port)
	ServerAddr string

	// Maximum database connection pool size
	MaxDBConnections int

	// Enable debug logging
	Debug bool

	// Token signing and lifetime configuration
	Token TokenConfig

	// Interval between background refreshes of the public permission cache.
	// Zero disables the background refresher (startup refresh still runs).
	CacheRefreshInterval time.Duration
}

// TokenConfig holds the signing configuration for issued credential tokens.
//
// Tokens are self-contained: the caller's account, domain, and permission set
// are embedded in the signed payload and verified without a server-side
// session store. Revocation is traded for statelessness; keep TTL short.
type TokenConfig struct {
	// Secret is the HMAC signing key. Required whenever the server issues
	// or verifies tokens, i.e. always in production.
	Secret string

	// Issuer is the iss claim stamped into issued tokens.
	Issuer string

	// TTL is the lifetime of issued tokens. Expiry is an absolute timestamp
	// computed at issuance and enforced at verification time.
	TTL time.Duration
}

// Load reads configuration from environment variables with fallback defaults
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:          getEnv("DATABASE_URL", "file:authgate.db"),
		ServerAddr:           getEnv("SERVER_ADDR", "localhost:8080"),
		MaxDBConnections:     getEnvInt("MAX_DB_CONNECTIONS", 25),
		Debug:                getEnvBool("DEBUG", false),
		CacheRefreshInterval: getEnvDuration("CACHE_REFRESH_INTERVAL", 5*time.Minute),
		Token: TokenConfig{
			Secret: getEnv("TOKEN_SECRET", ""),
			Issuer: getEnv("TOKEN_ISSUER", "authgate"),
			TTL:    getEnvDuration("TOKEN_TTL", 2*time.Hour),
		},
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.Token.Secret == "" {
		return nil, fmt.Errorf("TOKEN_SECRET is required")
	}

	if cfg.Token.TTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive")
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

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
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

// getEnvDuration retrieves a duration environment variable (Go duration
// syntax, e.g. "30m") or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
