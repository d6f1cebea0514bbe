package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/avapigw/internal/config"
)

// runGateway starts the HTTP server, the admin health server, and the
// config watcher, then blocks until a shutdown signal arrives and
// drains everything in reverse order.
func runGateway(app *application, configPath string, healthPort int, logger *zap.Logger) {
	ctx := context.Background()

	registerCircuitBreakerCheck(app.healthChecker, app.breakers)
	wireCORS(app)

	healthServer := startHealthServer(healthPort, app.healthChecker, logger)
	watcher := startConfigWatcher(app, configPath, logger)

	go func() {
		if err := app.server.Start(ctx); err != nil {
			logger.Error("gateway server stopped", zap.Error(err))
		}
	}()

	waitForShutdown(app, watcher, healthServer, logger)
}

// waitForShutdown blocks until SIGINT/SIGTERM and performs an ordered,
// bounded graceful shutdown of every component runGateway started.
func waitForShutdown(app *application, watcher *config.Watcher, healthServer *http.Server, logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if watcher != nil {
		_ = watcher.Stop()
	}

	stopHealthServer(shutdownCtx, healthServer, logger)

	if err := app.server.Stop(shutdownCtx); err != nil {
		logger.Error("failed to stop gateway server gracefully", zap.Error(err))
	}

	if app.obs != nil {
		if err := app.obs.Stop(shutdownCtx); err != nil {
			logger.Error("failed to stop observability stack", zap.Error(err))
		}
	}

	logger.Info("gateway stopped")
}
