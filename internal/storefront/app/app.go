package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/murodbro/turfa-bazar-client/internal/storefront/http"
	"github.com/murodbro/turfa-bazar-client/internal/storefront/service"
	"github.com/murodbro/turfa-bazar-client/internal/storefront/store"
	redisdrv "github.com/murodbro/turfa-bazar-client/internal/storefront/store/drivers/redis"
	"github.com/murodbro/turfa-bazar-client/internal/storefront/store/drivers/sqlite"
	"github.com/murodbro/turfa-bazar-client/pkg/commercesdk"
	"github.com/murodbro/turfa-bazar-client/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application wires the storefront client together: the commerce SDK, the
// session store, the auth and checkout services and the local gateway.
type Application struct {
	cfg    Config
	logger *slog.Logger

	store store.Store
	sdk   *commercesdk.Client

	auth     *service.AuthService
	checkout *service.CheckoutService
	orders   *service.OrdersService
	notifier *service.LogNotifier

	server *httpapi.Server
}

// New builds the application from configuration. Nothing is started yet;
// Run does that.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "storefront-client",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}
	app.initServices()

	app.server = httpapi.NewServer(
		app.sdk, app.auth, app.checkout, app.orders, app.notifier, app.logger, BuildVersion)

	return app, nil
}

func (app *Application) initStore() error {
	switch app.cfg.StoreDriver {
	case "redis":
		st, err := redisdrv.NewStore(context.Background(), redisdrv.Config{
			Addr:     app.cfg.RedisAddr,
			Password: app.cfg.RedisPassword,
			DB:       app.cfg.RedisDB,
			Prefix:   app.cfg.RedisPrefix,
		})
		if err != nil {
			return fmt.Errorf("connect redis session store: %w", err)
		}
		app.store = st
		app.logger.Info("session store ready", "driver", "redis", "addr", app.cfg.RedisAddr)
	default:
		st, err := sqlite.NewStore(app.cfg.DatabaseFile)
		if err != nil {
			return fmt.Errorf("open sqlite session store: %w", err)
		}
		if err := st.ApplyMigrations(); err != nil {
			return fmt.Errorf("migrate session store: %w", err)
		}
		app.store = st
		app.logger.Info("session store ready", "driver", "sqlite", "file", app.cfg.DatabaseFile)
	}
	return nil
}

func (app *Application) initServices() {
	app.sdk = commercesdk.New(app.cfg.BackendURL)

	app.auth = service.NewAuthService(
		app.sdk, app.store, app.logger,
		app.cfg.TokenCheckInterval, app.cfg.TokenRefreshHorizon)

	app.notifier = service.NewLogNotifier(app.logger)
	app.checkout = service.NewCheckoutService(
		app.sdk, app.auth, app.store, app.logger, app.notifier,
		service.CheckoutConfig{ConfirmWindow: app.cfg.ConfirmWindow})

	app.orders = service.NewOrdersService(app.sdk, app.auth, app.logger)
}

// Run restores persisted state, starts the gateway and blocks until a
// shutdown signal or a server error.
func (app *Application) Run() error {
	ctx := context.Background()

	if err := app.auth.Init(ctx); err != nil {
		return fmt.Errorf("restore auth session: %w", err)
	}
	if err := app.checkout.Resume(ctx); err != nil {
		return fmt.Errorf("resume checkout session: %w", err)
	}

	app.logger.Info("storefront client starting",
		"addr", app.cfg.ListenAddr, "backend", app.cfg.BackendURL, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.Start(app.cfg.ListenAddr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("gateway failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown stops the gateway, the schedulers and the store, in that order.
// An in-flight confirmation window is not cancelled remotely; Resume picks
// it up on the next start.
func (app *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("gateway shutdown failed", "error", err)
	}

	app.checkout.Close()
	app.auth.Stop()

	if err := app.store.Close(); err != nil {
		return fmt.Errorf("close session store: %w", err)
	}

	app.logger.Info("storefront client stopped")
	return nil
}
