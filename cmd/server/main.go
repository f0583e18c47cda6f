// go-jetter storefront client
// Entry point for the local web front
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/gojetter/storefront/internal/app"
	"github.com/gojetter/storefront/internal/config"
	"github.com/gojetter/storefront/internal/handlers"
	"github.com/gojetter/storefront/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("storefront: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		return fmt.Errorf("init container: %w", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Warn("failed to close storage", zap.Error(err))
		}
	}()

	container.Bootstrap(ctx)

	h, err := handlers.New(cfg, logger, handlers.Deps{
		Table:    container.Table,
		History:  container.History,
		Guard:    container.Guard,
		Session:  container.Session,
		Cart:     container.Cart,
		Currency: container.Currency,
		Catalog:  container.Catalog,
	})
	if err != nil {
		return fmt.Errorf("init handlers: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront starting",
			zap.String("addr", "http://localhost"+cfg.Addr()),
			zap.String("environment", cfg.Environment),
			zap.String("api", container.API.BaseURL()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
