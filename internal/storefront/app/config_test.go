package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://api.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "https://api.example.com", cfg.BackendURL)
	require.Equal(t, "127.0.0.1:8090", cfg.ListenAddr)
	require.Equal(t, "sqlite", cfg.StoreDriver)
	require.Equal(t, 180*time.Second, cfg.ConfirmWindow)
	require.Equal(t, 60*time.Second, cfg.TokenCheckInterval)
	require.Equal(t, 180*time.Second, cfg.TokenRefreshHorizon)
}

func TestLoadConfigMissingBackendURL(t *testing.T) {
	t.Setenv("BACKEND_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://api.example.com")
	t.Setenv("STORE_DRIVER", "memcached")

	_, err := LoadConfig()
	require.ErrorContains(t, err, "unknown store driver")
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://api.example.com")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "10.0.0.5:6379")
	t.Setenv("CONFIRM_WINDOW", "90s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "redis", cfg.StoreDriver)
	require.Equal(t, "10.0.0.5:6379", cfg.RedisAddr)
	require.Equal(t, 90*time.Second, cfg.ConfirmWindow)
}
