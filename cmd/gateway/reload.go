package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/avapigw/internal/config"
)

// startConfigWatcher watches configPath for changes and hot-reloads
// the router's routes on every valid edit. Authentication, rate
// limiting, and circuit breaker policy require a process restart to
// pick up, since they are wired once at startup.
func startConfigWatcher(app *application, configPath string, logger *zap.Logger) *config.Watcher {
	watcher, err := config.NewWatcher(configPath, func(newCfg *config.GatewayConfig) {
		logger.Info("configuration changed, reloading routes")
		if err := app.server.UpdateRoutes(newCfg.Spec.Routes); err != nil {
			logger.Error("failed to reload routes", zap.Error(err))
			return
		}
		app.config = newCfg
		logger.Info("routes reloaded", zap.Int("routes", len(newCfg.Spec.Routes)))
	})
	if err != nil {
		logger.Warn("failed to create config watcher", zap.Error(err))
		return nil
	}

	if err := watcher.Start(context.Background()); err != nil {
		logger.Warn("failed to start config watcher", zap.Error(err))
	}

	return watcher
}
