package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Rate limit store type constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

type Config struct {
	// Server settings
	ServerAddr string

	// Identity backend (Keystone-style API)
	IdentityAPIURL                string
	IdentityAPITimeout            time.Duration
	IdentityAPIInsecureSkipVerify bool
	IdentityAPIAuthMode           string // "none", "simple", or "hmac"
	IdentityAPIAuthSecret         string // Shared secret for authentication
	IdentityAPIAuthHeader         string // Custom header name for simple mode
	IdentityAPIMaxRetries         int    // Retry attempts (default: 0, at-most-once)
	IdentityAPIRetryDelay         time.Duration
	IdentityAPIMaxRetryDelay      time.Duration

	// Defaults applied to created users
	DefaultDomain    string // Keystone domain new users are created in
	DefaultProjectID string // Project used for default role assignment
	DefaultRoleID    string // Role used for default role assignment

	// Session cookie settings
	CookieMaxAge time.Duration // Lifetime of the auth token cookie
	CookieSecure bool

	// Metrics
	MetricsEnabled bool

	// Rate limiting (login endpoint)
	RateLimitEnabled   bool
	RateLimitPerMinute int
	RateLimitStore     string // "memory" or "redis"
	RedisAddr          string
	RedisPassword      string
	RedisDB            int

	// Audit log
	AuditEnabled    bool
	AuditBufferSize int
	AuditRetention  time.Duration

	// Database (audit log storage)
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	// Determine database driver and DSN
	driver := getEnv("DATABASE_DRIVER", "sqlite")
	var dsn string
	if driver == "sqlite" {
		dsn = getEnv("DATABASE_DSN", "authfront.db")
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		// Identity backend
		IdentityAPIURL:                getEnv("IDENTITY_API_URL", ""),
		IdentityAPITimeout:            getEnvDuration("IDENTITY_API_TIMEOUT", 10*time.Second),
		IdentityAPIInsecureSkipVerify: getEnvBool("IDENTITY_API_INSECURE_SKIP_VERIFY", false),
		IdentityAPIAuthMode:           getEnv("IDENTITY_API_AUTH_MODE", "none"),
		IdentityAPIAuthSecret:         getEnv("IDENTITY_API_AUTH_SECRET", ""),
		IdentityAPIAuthHeader:         getEnv("IDENTITY_API_AUTH_HEADER", "X-API-Secret"),
		IdentityAPIMaxRetries:         getEnvInt("IDENTITY_API_MAX_RETRIES", 0),
		IdentityAPIRetryDelay:         getEnvDuration("IDENTITY_API_RETRY_DELAY", 1*time.Second),
		IdentityAPIMaxRetryDelay:      getEnvDuration("IDENTITY_API_MAX_RETRY_DELAY", 10*time.Second),

		// User defaults
		DefaultDomain:    getEnv("DEFAULT_DOMAIN", "default"),
		DefaultProjectID: getEnv("DEFAULT_PROJECT_ID", ""),
		DefaultRoleID:    getEnv("DEFAULT_ROLE_ID", ""),

		// Session cookie
		CookieMaxAge: getEnvDuration("COOKIE_MAX_AGE", 1*time.Hour),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),

		// Metrics
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),

		// Rate limiting
		RateLimitEnabled:   getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		RateLimitStore:     getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),

		// Audit log
		AuditEnabled:    getEnvBool("AUDIT_ENABLED", true),
		AuditBufferSize: getEnvInt("AUDIT_BUFFER_SIZE", 1000),
		AuditRetention:  getEnvDuration("AUDIT_RETENTION", 90*24*time.Hour),

		DatabaseDriver: driver,
		DatabaseDSN:    dsn,
	}
}

// Validate checks that the configuration is usable before startup.
func (c *Config) Validate() error {
	if c.IdentityAPIURL == "" {
		return fmt.Errorf("IDENTITY_API_URL is required")
	}

	switch c.IdentityAPIAuthMode {
	case "none", "simple", "hmac":
	default:
		return fmt.Errorf("invalid IDENTITY_API_AUTH_MODE: %s", c.IdentityAPIAuthMode)
	}

	if c.IdentityAPIAuthMode != "none" && c.IdentityAPIAuthSecret == "" {
		return fmt.Errorf(
			"IDENTITY_API_AUTH_SECRET is required when IDENTITY_API_AUTH_MODE is %s",
			c.IdentityAPIAuthMode,
		)
	}

	if c.IdentityAPIMaxRetries < 0 {
		return fmt.Errorf("IDENTITY_API_MAX_RETRIES must not be negative")
	}

	if c.RateLimitEnabled {
		switch c.RateLimitStore {
		case RateLimitStoreMemory:
		case RateLimitStoreRedis:
			if c.RedisAddr == "" {
				return fmt.Errorf("REDIS_ADDR is required when RATE_LIMIT_STORE is redis")
			}
		default:
			return fmt.Errorf("invalid RATE_LIMIT_STORE: %s", c.RateLimitStore)
		}
	}

	if c.AuditEnabled && c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required when AUDIT_ENABLED is true")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
