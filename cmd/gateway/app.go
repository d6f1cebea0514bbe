package main

import (
	"crypto/tls"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/avapigw/internal/auth"
	"github.com/vyrodovalexey/avapigw/internal/auth/jwt"
	"github.com/vyrodovalexey/avapigw/internal/circuitbreaker"
	"github.com/vyrodovalexey/avapigw/internal/config"
	"github.com/vyrodovalexey/avapigw/internal/dispatcher"
	"github.com/vyrodovalexey/avapigw/internal/errs"
	gwhttp "github.com/vyrodovalexey/avapigw/internal/gateway/server/http"
	"github.com/vyrodovalexey/avapigw/internal/health"
	"github.com/vyrodovalexey/avapigw/internal/observability"
	"github.com/vyrodovalexey/avapigw/internal/ratelimit"
)

// application holds all wired components for a running gateway process.
type application struct {
	server        *gwhttp.Server
	breakers      *circuitbreaker.Registry
	limiter       ratelimit.Limiter
	authenticator *auth.Authenticator
	healthChecker *health.Checker
	obs           *observability.Observability
	config        *config.GatewayConfig
}

// initApplication builds every pipeline stage named in the gateway's
// completeness checklist -- authentication, rate limiting, circuit
// breaking, upstream dispatch -- and wires them into a Server via
// SetPipeline so a matched route actually runs through them instead of
// only being resolved.
func initApplication(cfg *config.GatewayConfig, logger *zap.Logger, production bool) *application {
	breakers := circuitbreaker.NewRegistry(buildCircuitBreakerConfig(cfg), logger)

	limiter, err := ratelimit.NewLimiter(buildRateLimitConfig(cfg, logger))
	if err != nil {
		logger.Fatal("failed to initialize rate limiter", zap.Error(err))
	}

	authenticator := buildAuthenticator(cfg, logger)
	if authenticator == nil {
		logger.Warn("no JWT authentication configured; routes with authRequired will reject all requests")
	}

	disp := dispatcher.New(breakers, logger, 30*time.Second)
	mapper := errs.NewMapper(production)

	serverCfg := gwhttp.DefaultServerConfig()
	if listener := primaryListener(cfg); listener != nil {
		applyListenerConfig(serverCfg, listener, logger)
	}

	server := gwhttp.NewServer(serverCfg, logger)
	if err := server.UpdateRoutes(cfg.Spec.Routes); err != nil {
		logger.Fatal("failed to load routes", zap.Error(err))
	}

	server.SetPipeline(&gwhttp.Pipeline{
		Authenticator: authenticator,
		Limiter:       limiter,
		Dispatcher:    disp,
		Mapper:        mapper,
	})

	return &application{
		server:        server,
		breakers:      breakers,
		limiter:       limiter,
		authenticator: authenticator,
		healthChecker: health.NewChecker(version),
		config:        cfg,
	}
}

// primaryListener returns the first HTTP(S) listener in the gateway
// spec, which is the one the single embedded Server binds to.
func primaryListener(cfg *config.GatewayConfig) *config.Listener {
	for i := range cfg.Spec.Listeners {
		l := &cfg.Spec.Listeners[i]
		if l.Protocol == "" || l.Protocol == "HTTP" || l.Protocol == "HTTPS" {
			return l
		}
	}
	return nil
}

// applyListenerConfig copies port, bind address, and TLS material from
// the matched listener onto the server config.
func applyListenerConfig(serverCfg *gwhttp.ServerConfig, listener *config.Listener, logger *zap.Logger) {
	if listener.Port != 0 {
		serverCfg.Port = listener.Port
	}
	serverCfg.Address = listener.Bind

	if listener.Timeouts != nil {
		serverCfg.ReadTimeout = listener.Timeouts.GetEffectiveReadTimeout()
		serverCfg.WriteTimeout = listener.Timeouts.GetEffectiveWriteTimeout()
		serverCfg.IdleTimeout = listener.Timeouts.GetEffectiveIdleTimeout()
	}

	if listener.TLS != nil && listener.TLS.CertFile != "" && listener.TLS.KeyFile != "" {
		tlsConfig, err := buildTLSConfig(listener.TLS)
		if err != nil {
			logger.Fatal("failed to load listener TLS material", zap.Error(err))
		}
		serverCfg.TLS = tlsConfig
	}
}

// buildCircuitBreakerConfig translates the gateway-wide circuit
// breaker policy into the registry's Config, falling back to the
// registry's own defaults when the gateway spec leaves it unset.
func buildCircuitBreakerConfig(cfg *config.GatewayConfig) *circuitbreaker.Config {
	cb := cfg.Spec.CircuitBreaker
	if cb == nil || !cb.Enabled {
		return circuitbreaker.DefaultConfig()
	}

	c := circuitbreaker.DefaultConfig()
	if cb.Threshold > 0 {
		c.MaxFailures = cb.Threshold
	}
	if cb.Timeout.Duration() > 0 {
		c.Timeout = cb.Timeout.Duration()
	}
	if cb.HalfOpenRequests > 0 {
		c.HalfOpenMax = cb.HalfOpenRequests
	}
	return c
}

// buildRateLimitConfig translates the gateway-wide rate limit policy
// into the limiter factory's Config.
func buildRateLimitConfig(cfg *config.GatewayConfig, logger *zap.Logger) *ratelimit.FactoryConfig {
	rl := cfg.Spec.RateLimit
	fc := ratelimit.DefaultFactoryConfig()
	fc.Logger = logger

	if rl == nil || !rl.Enabled {
		return fc
	}

	if rl.RequestsPerSecond > 0 {
		fc.Requests = rl.RequestsPerSecond
		fc.Window = time.Second
	}
	if rl.Burst > 0 {
		fc.Burst = rl.Burst
	}

	if storeType := getEnvOrDefault("GATEWAY_RATELIMIT_STORE", ""); storeType != "" {
		fc.StoreType = storeType
		fc.RedisAddress = getEnvOrDefault("GATEWAY_REDIS_ADDRESS", fc.RedisAddress)
		fc.RedisPassword = getEnvOrDefault("GATEWAY_REDIS_PASSWORD", fc.RedisPassword)
	}

	return fc
}

// buildAuthenticator looks across the gateway's routes for the first
// enabled JWT authentication policy and builds a single Authenticator
// shared by every route; each route's own authRequired flag decides
// whether the pipeline enforces it.
func buildAuthenticator(cfg *config.GatewayConfig, logger *zap.Logger) *auth.Authenticator {
	var jwtCfg *config.JWTAuthConfig
	for _, r := range cfg.Spec.Routes {
		if r.Authentication != nil && r.Authentication.JWT != nil && r.Authentication.JWT.Enabled {
			jwtCfg = r.Authentication.JWT
			break
		}
	}

	if jwtCfg == nil {
		return nil
	}

	algorithms := []string{jwt.AlgHS256}
	if jwtCfg.Algorithm != "" {
		algorithms = []string{jwtCfg.Algorithm}
	}

	claimMapping := &jwt.ClaimMapping{
		Subject:     []string{"sub", "userId", "id"},
		Roles:       "roles",
		Permissions: "permissions",
		Tier:        "tier",
	}
	if jwtCfg.ClaimMapping != nil {
		if jwtCfg.ClaimMapping.Roles != "" {
			claimMapping.Roles = jwtCfg.ClaimMapping.Roles
		}
		if jwtCfg.ClaimMapping.Permissions != "" {
			claimMapping.Permissions = jwtCfg.ClaimMapping.Permissions
		}
	}

	authenticator, err := auth.New(&auth.Config{
		JWT: &jwt.Config{
			Algorithms:   algorithms,
			Secret:       jwtCfg.Secret,
			Issuer:       jwtCfg.Issuer,
			Audience:     jwtCfg.Audience,
			ClockSkew:    5 * time.Second,
			ClaimMapping: claimMapping,
		},
	})
	if err != nil {
		logger.Warn("failed to initialize authenticator", zap.Error(err))
		return nil
	}

	return authenticator
}

// buildTLSConfig loads the server certificate named by a listener's
// TLS settings into a *tls.Config ready for Server.Start.
func buildTLSConfig(tlsCfg *config.ListenerTLSConfig) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(tlsCfg.CertFile, tlsCfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("loading TLS certificate: %w", err)
	}

	minVersion := uint16(tls.VersionTLS12)
	if tlsCfg.MinVersion == "TLS13" {
		minVersion = tls.VersionTLS13
	}

	return &tls.Config{
		Certificates:       []tls.Certificate{cert},
		MinVersion:         minVersion,
		InsecureSkipVerify: tlsCfg.InsecureSkipVerify, //nolint:gosec // explicit opt-in via config
	}, nil
}
