package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		IdentityAPIURL:      "http://keystone:5000",
		IdentityAPIAuthMode: "none",
		RateLimitEnabled:    true,
		RateLimitStore:      RateLimitStoreMemory,
		AuditEnabled:        true,
		DatabaseDSN:         "authfront.db",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 10*time.Second, cfg.IdentityAPITimeout)
	assert.Equal(t, "none", cfg.IdentityAPIAuthMode)
	assert.Equal(t, 0, cfg.IdentityAPIMaxRetries)
	assert.Equal(t, "default", cfg.DefaultDomain)
	assert.Equal(t, time.Hour, cfg.CookieMaxAge)
	assert.Equal(t, RateLimitStoreMemory, cfg.RateLimitStore)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("IDENTITY_API_URL", "http://keystone:5000")
	t.Setenv("IDENTITY_API_TIMEOUT", "3s")
	t.Setenv("IDENTITY_API_MAX_RETRIES", "2")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")

	cfg := Load()

	assert.Equal(t, "http://keystone:5000", cfg.IdentityAPIURL)
	assert.Equal(t, 3*time.Second, cfg.IdentityAPITimeout)
	assert.Equal(t, 2, cfg.IdentityAPIMaxRetries)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 10, cfg.RateLimitPerMinute)
}

func TestValidateRequiresIdentityURL(t *testing.T) {
	cfg := validConfig()
	cfg.IdentityAPIURL = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IDENTITY_API_URL")
}

func TestValidateAuthMode(t *testing.T) {
	cfg := validConfig()
	cfg.IdentityAPIAuthMode = "bogus"
	assert.Error(t, cfg.Validate())

	cfg.IdentityAPIAuthMode = "simple"
	cfg.IdentityAPIAuthSecret = ""
	assert.Error(t, cfg.Validate())

	cfg.IdentityAPIAuthSecret = "shared-secret"
	assert.NoError(t, cfg.Validate())
}

func TestValidateNegativeRetries(t *testing.T) {
	cfg := validConfig()
	cfg.IdentityAPIMaxRetries = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateRedisStoreNeedsAddr(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimitStore = RateLimitStoreRedis
	cfg.RedisAddr = ""
	assert.Error(t, cfg.Validate())

	cfg.RedisAddr = "localhost:6379"
	assert.NoError(t, cfg.Validate())
}

func TestValidateAuditNeedsDSN(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseDSN = ""
	assert.Error(t, cfg.Validate())

	cfg.AuditEnabled = false
	assert.NoError(t, cfg.Validate())
}
