package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/avapigw/internal/circuitbreaker"
	"github.com/vyrodovalexey/avapigw/internal/health"
	"github.com/vyrodovalexey/avapigw/internal/middleware"
	"github.com/vyrodovalexey/avapigw/internal/observability"
)

// registerCircuitBreakerCheck wires a readiness check that reports
// degraded once more than half of the known circuit breakers are open,
// surfacing upstream failure on the /ready endpoint instead of only in
// logs and metrics.
func registerCircuitBreakerCheck(checker *health.Checker, breakers *circuitbreaker.Registry) {
	checker.RegisterCheck("circuit_breakers", func() health.Check {
		stats := breakers.Stats()
		if len(stats) == 0 {
			return health.Check{Status: health.StatusHealthy}
		}

		open := 0
		for _, s := range stats {
			if s.State == circuitbreaker.StateOpen {
				open++
			}
		}

		if open > len(stats)/2 {
			return health.Check{
				Status:  health.StatusDegraded,
				Message: fmt.Sprintf("%d/%d circuit breakers open", open, len(stats)),
			}
		}
		return health.Check{Status: health.StatusHealthy}
	})
}

// startHealthServer starts a small admin HTTP server exposing health,
// readiness, and liveness probes, separate from the observability
// stack's own metrics listener. Every probe gets a request ID and a
// panic recovery wrapper from internal/middleware, the same net/http
// middleware the gin-based gateway server doesn't use directly but
// which fits this plain stdlib mux exactly.
func startHealthServer(port int, checker *health.Checker, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", checker.HealthHandler())
	mux.HandleFunc("/ready", checker.ReadinessHandler())
	mux.HandleFunc("/live", checker.LivenessHandler())

	obsLogger, err := observability.NewLogger(observability.DefaultLogConfig())
	if err != nil {
		obsLogger = observability.NopLogger()
	}

	var handler http.Handler = mux
	handler = middleware.Recovery(obsLogger)(handler)
	handler = middleware.RequestID()(handler)

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	go func() {
		logger.Info("starting health server", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", zap.Error(err))
		}
	}()

	return server
}

// stopHealthServer shuts the admin health server down gracefully.
func stopHealthServer(ctx context.Context, server *http.Server, logger *zap.Logger) {
	if server == nil {
		return
	}
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("failed to stop health server gracefully", zap.Error(err))
	}
}
