// Package server wires the accounts API together: it connects the configured
// store, runs migrations, builds the services and serves HTTP until a
// termination signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bulkassi/webProg2/internal/logging"
	"github.com/bulkassi/webProg2/internal/server/auth"
	"github.com/bulkassi/webProg2/internal/server/config"
	"github.com/bulkassi/webProg2/internal/server/repositories/repomanager"
	"github.com/bulkassi/webProg2/internal/server/rest"
	"github.com/bulkassi/webProg2/internal/server/services"
	"github.com/gin-gonic/gin"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.Manager
	http   *rest.HTTPServer
}

// newManager is a seam for tests.
var newManager = repomanager.New

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	repos, err := newManager(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("store migration error: %w", err)
	}

	hasher := auth.NewPasswordHasher(c.BcryptCost)
	codec := auth.NewTokenCodec(c.SecretKey, c.TokenValidityDuration)
	if c.TokenValidityDuration == 0 {
		logger.Warn(ctx, "tokens are issued without expiry")
	}

	as := services.NewAuthService(repos, hasher, codec, logger)
	us := services.NewUserService(repos, hasher, logger)

	hs := rest.NewHTTPServer(rest.Options{
		Address:          c.EndpointAddrHTTP,
		CORSAllowOrigins: c.CORSAllowOrigins,
		ShutdownTimeout:  c.ShutdownTimeout,
	}, logger, as, us, codec)

	return &App{config: c, logger: logger, repos: repos, http: hs}, nil
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM/SIGQUIT arrives, then
// shuts the HTTP server down and closes the store.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "store", app.config.StoreDriver)

	runErr := app.http.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "http server stopped", "error", runErr)
	}

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.config.ShutdownTimeout)
	defer cancel()
	if err := app.repos.Close(closeCtx); err != nil {
		app.logger.Error(closeCtx, "store close failed", "error", err)
	}

	app.logger.Info(closeCtx, "App stopped")
	return runErr
}
