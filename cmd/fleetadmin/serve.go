package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/septivank/fleet-admin-api/internal/config"
	"github.com/septivank/fleet-admin-api/internal/httpapi"
	"github.com/septivank/fleet-admin-api/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const lifecycleTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// newApp wires the service graph. extra is appended after the defaults.
func newApp(extra ...fx.Option) *fx.App {
	opts := []fx.Option{
		fx.WithLogger(fxLogger),
		fx.Provide(
			config.Load,
			newLogger,
			ProvideStores,
			ProvidePublisher,
			ProvideClock,
			ProvideStatusCodes,
			service.NewThresholdService,
			service.NewDeviceService,
			httpapi.NewThresholdHandler,
			httpapi.NewDeviceHandler,
			httpapi.NewRouter,
			httpapi.NewServer,
		),
		fx.Invoke(func(*http.Server) {}),
	}
	return fx.New(append(opts, extra...)...)
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	app := newApp()
	if err := app.Err(); err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startCtx, startCancel := context.WithTimeout(context.Background(), lifecycleTimeout)
	defer startCancel()

	if err := app.Start(startCtx); err != nil {
		if errors.Is(startCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("application did not start within %s, a dependency (database or RabbitMQ) is probably unreachable: %w", lifecycleTimeout, err)
		}
		return err
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), lifecycleTimeout)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		return fmt.Errorf("error stopping app: %w", err)
	}
	return nil
}

// startupLogger logs before fx has built the configured logger
func startupLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
