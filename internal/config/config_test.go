package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 72*time.Hour, cfg.ConfirmationCodeTTL)
	assert.Equal(t, 5*time.Minute, cfg.UserCacheTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("ACCESS_TOKEN_TTL", "90m")
	t.Setenv("AUTH_RATE_LIMIT", "0.5")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 90*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 0.5, cfg.AuthRateLimit)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
