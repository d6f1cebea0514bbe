// Package main is the entry point for the API Gateway.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/avapigw/internal/observability"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	healthPort  int
	production  bool
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	bootstrapLogger := newBootstrapLogger(flags)
	defer func() { _ = bootstrapLogger.Sync() }()

	cfg := loadAndValidateConfig(flags.configPath, bootstrapLogger)

	obsConfig := buildObservabilityConfig(cfg, flags.logLevel, flags.logFormat)
	obs, err := observability.New(obsConfig)
	if err != nil {
		bootstrapLogger.Fatal("failed to initialize observability", zap.Error(err))
	}
	if err := obs.Start(context.Background()); err != nil {
		bootstrapLogger.Fatal("failed to start observability", zap.Error(err))
	}

	logger := obs.Logger().Logger
	defer func() { _ = logger.Sync() }()

	logger.Info("starting avapigw",
		zap.String("version", version),
		zap.String("build_time", buildTime),
		zap.String("git_commit", gitCommit),
	)

	app := initApplication(cfg, logger, flags.production)
	app.obs = obs

	runGateway(app, flags.configPath, flags.healthPort, logger)
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", getEnvOrDefault("GATEWAY_CONFIG_PATH", "configs/gateway.yaml"),
		"Path to configuration file")
	logLevel := flag.String("log-level", getEnvOrDefault("GATEWAY_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", getEnvOrDefault("GATEWAY_LOG_FORMAT", "json"),
		"Log format (json, console)")
	healthPort := flag.Int("health-port", 8082, "Port for the health/readiness admin server")
	production := flag.Bool("production", getEnvBool("GATEWAY_PRODUCTION", true),
		"Elide internal error causes from client-facing error responses")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		configPath:  *configPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		healthPort:  *healthPort,
		production:  *production,
		showVersion: *showVersion,
	}
}

// printVersion prints version information and exits.
func printVersion() {
	fmt.Printf("avapigw version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// newBootstrapLogger builds a minimal logger for use before the
// configuration file (and with it, the full observability stack) has
// loaded.
func newBootstrapLogger(flags cliFlags) *zap.Logger {
	var logger *zap.Logger
	var err error
	if flags.logFormat == "console" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}
