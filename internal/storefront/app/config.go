package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration, loaded from the environment
// with an optional .env file underneath.
type Config struct {
	// BackendURL is the base URL of the commerce backend API.
	BackendURL string `env:"BACKEND_URL,required,notEmpty"`

	// ListenAddr is where the local gateway listens. Loopback by default:
	// the gateway does not authenticate its callers.
	ListenAddr string `env:"LISTEN_ADDR" envDefault:"127.0.0.1:8090"`

	// StoreDriver selects the session state driver: sqlite or redis.
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`

	// DatabaseFile is the sqlite session database path.
	DatabaseFile string `env:"DATABASE_FILE" envDefault:"storefront.db"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"storefront"`

	// ConfirmWindow bounds the order confirmation handshake.
	ConfirmWindow time.Duration `env:"CONFIRM_WINDOW" envDefault:"180s"`

	// TokenCheckInterval and TokenRefreshHorizon drive the auth token
	// scheduler.
	TokenCheckInterval  time.Duration `env:"TOKEN_CHECK_INTERVAL" envDefault:"60s"`
	TokenRefreshHorizon time.Duration `env:"TOKEN_REFRESH_HORIZON" envDefault:"180s"`

	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig reads the environment, loading a .env file first when one
// exists.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.StoreDriver != "sqlite" && cfg.StoreDriver != "redis" {
		return Config{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	return cfg, nil
}
