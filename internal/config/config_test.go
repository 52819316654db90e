package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("REDIS_URI", "redis://localhost:6379/0")
	t.Setenv("CLOUDINARY_BUCKET", "demo-bucket")
	t.Setenv("CLOUDINARY_FOLDER", "uploads")
	t.Setenv("CLOUDINARY_KEY", "key123")
	t.Setenv("CLOUDINARY_SECRET", "s3cret")
	t.Setenv("BEARER_TOKEN", "token")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "cloudinary-gateway", cfg.ServiceName)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 3*time.Second, cfg.RemoveQueueDelay)
	assert.Equal(t, 2, cfg.RemoveRateLimit)
	assert.Equal(t, 3*time.Second, cfg.RemoveRateWindow)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoadTrimsCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CLOUDINARY_SECRET", "  padded  ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "padded", cfg.CloudinarySecret)
}

func TestLoadRequiresRedisURI(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDIS_URI", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveRateLimit(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REMOVE_RATE_LIMIT", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REMOVE_RATE_LIMIT")
}

func TestIsProduction(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENVIRONMENT", "Production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
