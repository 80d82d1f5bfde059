package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("PORT", "")
	t.Setenv("JWT_TTL_HOURS", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL())
	assert.Empty(t, cfg.JWTSecret)
	assert.Nil(t, cfg.CORSAllowedOrigins)
	assert.Nil(t, cfg.TrustedProxies)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://app.example.com ,")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DBURL)
	assert.Equal(t, []string{"http://localhost:5173", "https://app.example.com"}, cfg.CORSAllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := Config{JWTSecret: "x", StoreDriver: DriverMemory, JWTTTLHours: 168}

	require.NoError(t, base.Validate())

	noSecret := base
	noSecret.JWTSecret = "   "
	assert.ErrorIs(t, noSecret.Validate(), ErrMissingSecret)

	badDriver := base
	badDriver.StoreDriver = "sqlite"
	assert.ErrorIs(t, badDriver.Validate(), ErrUnknownDriver)

	badTTL := base
	badTTL.JWTTTLHours = 0
	assert.Error(t, badTTL.Validate())
}

func TestWithTimeoutIgnoresParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	cancel()

	ctx, done := WithTimeout(parent, time.Second)
	defer done()

	assert.NoError(t, ctx.Err())
	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}
