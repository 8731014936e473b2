package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/vaultactions/internal/app"
	"github.com/allisson/vaultactions/internal/config"
)

// shutdownTimeout bounds how long graceful shutdown may take.
const shutdownTimeout = 30 * time.Second

// RunServer starts the HTTP server, the metrics server and the event
// dispatcher workers. Blocks until receiving SIGINT/SIGTERM or a fatal
// error, then shuts everything down gracefully.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	dispatcher, err := container.DispatcherUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize event dispatcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := server.Start(groupCtx); err != nil {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	})

	if cfg.MetricsEnabled {
		group.Go(func() error {
			if err := metricsServer.Start(groupCtx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
	}

	workers := cfg.EventDispatchWorkers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		group.Go(func() error {
			if err := dispatcher.Start(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("event dispatcher error: %w", err)
			}
			return nil
		})
	}

	// Unblock the listeners once a shutdown signal arrives or a component fails.
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var shutdownErrors []error

		if err := server.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("api server shutdown: %w", err))
		}

		if cfg.MetricsEnabled {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
			}
		}

		return errors.Join(shutdownErrors...)
	})

	return group.Wait()
}
