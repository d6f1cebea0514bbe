package main

import (
	"go.uber.org/zap"

	"github.com/vyrodovalexey/avapigw/internal/config"
)

// loadAndValidateConfig loads the gateway configuration from path and
// validates it, logging a summary of what was loaded. It terminates
// the process on any failure since there is nothing useful to run
// without a valid configuration.
func loadAndValidateConfig(path string, logger *zap.Logger) *config.GatewayConfig {
	logger.Info("loading configuration", zap.String("path", path))

	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	if err := config.ValidateConfig(cfg); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.String("name", cfg.Metadata.Name),
		zap.Int("listeners", len(cfg.Spec.Listeners)),
		zap.Int("routes", len(cfg.Spec.Routes)),
		zap.Int("backends", len(cfg.Spec.Backends)),
	)

	return cfg
}
