package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestFromEnvRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("LOGIN_RATE_WINDOW", "30s")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.Equal(t, 30*time.Second, cfg.LoginRateWindow)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Equal(t, "host=db port=5432 user=postgres password=postgres dbname=streaming_service sslmode=disable", cfg.DB.DSN())
	assert.False(t, cfg.GoogleEnabled())
	assert.Empty(t, cfg.TrustedProxies)
}

func TestFromEnvTrustedProxies(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.1, ,192.168.0.0/16 ")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.TrustedProxies)
}

func TestFromEnvRejectsBadCost(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("BCRYPT_COST", "99")

	_, err := FromEnv()
	assert.Error(t, err)
}
