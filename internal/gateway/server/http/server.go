// Package http provides the HTTP server implementation for the API Gateway.
package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/avapigw/internal/auth"
	"github.com/vyrodovalexey/avapigw/internal/config"
	"github.com/vyrodovalexey/avapigw/internal/dispatcher"
	"github.com/vyrodovalexey/avapigw/internal/errs"
	"github.com/vyrodovalexey/avapigw/internal/gateway/server/http/middleware"
	"github.com/vyrodovalexey/avapigw/internal/ratelimit"
	"github.com/vyrodovalexey/avapigw/internal/router"
)

// admission limits mirror spec.md's global request-admission checks,
// applied before a route's own pipeline runs.
const (
	maxURLLength   = 2048
	maxHeaderCount = 100
	maxHeaderName  = 256
	maxHeaderValue = 4096
)

var allowedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
}

// Pipeline holds the stages the gateway runs a matched route through:
// authentication, rate limiting, and upstream dispatch. A Server with
// a nil Pipeline still resolves routes but answers every request with
// 503, since there is nothing to dispatch to.
type Pipeline struct {
	Authenticator *auth.Authenticator
	Limiter       ratelimit.Limiter
	Dispatcher    *dispatcher.Dispatcher
	Mapper        *errs.Mapper
}

// ginModeOnce ensures gin.SetMode is only called once to avoid race conditions
var ginModeOnce sync.Once

// Server represents the HTTP server for the API Gateway.
type Server struct {
	engine      *gin.Engine
	httpServer  *http.Server
	router      *router.Router
	middlewares []gin.HandlerFunc
	logger      *zap.Logger
	config      *ServerConfig
	pipeline    *Pipeline
	mu          sync.RWMutex
	running     bool
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Port           int
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	TLS            *tls.Config
	// MaxRequestBodySize is the maximum allowed request body size in bytes.
	// Default is 10MB. Set to 0 to disable the limit.
	MaxRequestBodySize int64
}

// DefaultServerConfig returns a ServerConfig with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:               8080,
		Address:            "",
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
		IdleTimeout:        120 * time.Second,
		MaxHeaderBytes:     1 << 20,  // 1 MB
		MaxRequestBodySize: 10 << 20, // 10 MB default request body limit
	}
}

// NewServer creates a new HTTP server.
func NewServer(config *ServerConfig, logger *zap.Logger) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}

	// Set Gin mode based on environment (only once to avoid race conditions)
	ginModeOnce.Do(func() {
		gin.SetMode(gin.ReleaseMode)
	})

	engine := gin.New()

	s := &Server{
		engine:      engine,
		router:      router.New(),
		middlewares: make([]gin.HandlerFunc, 0),
		logger:      logger,
		config:      config,
	}

	// Add request body size limit middleware if configured
	if config.MaxRequestBodySize > 0 {
		s.Use(s.maxRequestBodySizeMiddleware())
	}

	return s
}

// maxRequestBodySizeMiddleware returns a middleware that limits request body size.
func (s *Server) maxRequestBodySizeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Wrap the request body with MaxBytesReader to enforce size limit
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxRequestBodySize)
		c.Next()
	}
}

// Use adds middleware to the server.
func (s *Server) Use(middleware ...gin.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.middlewares = append(s.middlewares, middleware...)
	for _, m := range middleware {
		s.engine.Use(m)
	}
}

// GetEngine returns the underlying Gin engine.
func (s *Server) GetEngine() *gin.Engine {
	return s.engine
}

// GetRouter returns the router.
func (s *Server) GetRouter() *router.Router {
	return s.router
}

// SetPipeline wires the authenticator, rate limiter, dispatcher, and
// error mapper that handleRequest runs a matched route through, and
// registers the request-scoped middleware (recovery, request ID,
// access logging) the pipeline's error paths and logging rely on.
// Safe to call before Start; not safe to call concurrently with
// requests.
func (s *Server) SetPipeline(p *Pipeline) {
	s.mu.Lock()
	s.pipeline = p
	s.mu.Unlock()

	s.Use(
		middleware.Recovery(s.logger),
		middleware.RequestID(),
		middleware.Logging(s.logger),
	)
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}

	addr := fmt.Sprintf("%s:%d", s.config.Address, s.config.Port)

	s.httpServer = &http.Server{
		Addr:           addr,
		Handler:        s.engine,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		TLSConfig:      s.config.TLS,
	}

	s.running = true
	s.mu.Unlock()

	s.logger.Info("starting HTTP server",
		zap.String("address", addr),
		zap.Duration("readTimeout", s.config.ReadTimeout),
		zap.Duration("writeTimeout", s.config.WriteTimeout),
	)

	// Setup the catch-all route handler
	s.setupRouteHandler()

	var err error
	if s.config.TLS != nil {
		err = s.httpServer.ListenAndServeTLS("", "")
	} else {
		err = s.httpServer.ListenAndServe()
	}

	if err != nil && err != http.ErrServerClosed {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Stop stops the HTTP server gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.logger.Info("stopping HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("HTTP server stopped")
	return nil
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// UpdateRoutes replaces the routes in the router with the given
// configuration, preserving declaration order for first-match semantics.
func (s *Server) UpdateRoutes(routes []config.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.router.LoadRoutes(routes)
}

// RemoveRoute removes a route by name.
func (s *Server) RemoveRoute(name string) error {
	return s.router.RemoveRoute(name)
}

// setupRouteHandler sets up the catch-all route handler.
func (s *Server) setupRouteHandler() {
	s.engine.NoRoute(func(c *gin.Context) {
		s.handleRequest(c)
	})

	// Also handle all methods on all paths
	s.engine.Any("/*path", func(c *gin.Context) {
		s.handleRequest(c)
	})
}

// handleRequest resolves the route for an inbound request and runs it
// through the gateway pipeline: admission checks, authentication, rate
// limiting, and upstream dispatch, in that order. Any stage error is
// normalized through the pipeline's Mapper into the gateway's JSON
// error envelope.
func (s *Server) handleRequest(c *gin.Context) {
	requestID := middleware.GetRequestID(c)
	if requestID == "" {
		requestID = c.GetHeader(middleware.RequestIDHeader)
	}

	if rejected := checkAdmission(c.Request); rejected != nil {
		s.writeError(c, requestID, rejected)
		return
	}

	result, err := s.router.Match(c.Request)
	if err != nil {
		s.writeError(c, requestID, errs.RouteNotFound(c.Request.Method, c.Request.URL.Path))
		return
	}

	c.Set("route", result.Route)
	c.Set("pathParams", result.PathParams)

	s.logger.Debug("route matched",
		zap.String("route", result.Route.Name),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)

	s.mu.RLock()
	pipeline := s.pipeline
	s.mu.RUnlock()

	if pipeline == nil {
		s.writeError(c, requestID, errs.ServiceUnavailable(result.Route.Name, nil))
		return
	}

	user, authErr := s.authenticate(c, pipeline.Authenticator, result.Route.Config.AuthRequired)
	if authErr != nil {
		s.writeError(c, requestID, authErr)
		return
	}

	if rlErr := s.checkRateLimit(c, pipeline.Limiter, result.Route.Config, user); rlErr != nil {
		s.writeError(c, requestID, rlErr)
		return
	}

	dispatchResult, dispatchErr := pipeline.Dispatcher.Dispatch(
		c.Request.Context(), c.Request, result.Route, result.PathParams, user, requestID,
	)
	if dispatchErr != nil {
		s.writeError(c, requestID, dispatchErr)
		return
	}

	for k, v := range dispatchResult.Header {
		c.Writer.Header()[k] = v
	}
	c.Data(dispatchResult.StatusCode, dispatchResult.Header.Get("Content-Type"), dispatchResult.Body)
}

// authenticate runs bearer-token authentication for the matched route.
// requireAuth selects required vs. optional mode per spec.md: a
// required route fails closed on a missing or invalid token, while an
// optional route only attaches a UserContext when a token validates.
func (s *Server) authenticate(c *gin.Context, authenticator *auth.Authenticator, requireAuth bool) (*auth.UserContext, error) {
	if authenticator == nil {
		if requireAuth {
			return nil, errs.AuthenticationRequired()
		}
		return nil, nil
	}

	mode := auth.ModeOptional
	if requireAuth {
		mode = auth.ModeRequired
	}

	token, _ := authenticator.Extractor().Extract(c.Request)

	user, err := authenticator.Authenticate(c.Request.Context(), token, mode)
	if err != nil {
		return nil, err
	}

	if user != nil {
		c.Request = c.Request.WithContext(auth.ContextWithUser(c.Request.Context(), user))
	}

	return user, nil
}

// checkRateLimit keys the rate-limit check off the authenticated
// user's tier when present, falling back to the route's configured
// tier and the client IP, per spec.md's per-tier rate limiting.
func (s *Server) checkRateLimit(c *gin.Context, limiter ratelimit.Limiter, route config.Route, user *auth.UserContext) error {
	if limiter == nil {
		return nil
	}

	tier := route.RateLimitTier
	if tier == "" {
		tier = "basic"
	}
	if user != nil && user.Tier != "" {
		tier = user.Tier
	}

	key := tier + ":" + ratelimit.GetClientIP(c.Request)

	result, err := limiter.Allow(c.Request.Context(), key)
	if err != nil {
		s.logger.Error("rate limit check failed", zap.String("key", key), zap.Error(err))
		return nil
	}

	c.Writer.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
	c.Writer.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))

	if !result.Allowed {
		return errs.RateLimitExceeded(tier, time.Now().Add(result.RetryAfter).Unix())
	}

	return nil
}

// writeError normalizes a pipeline-stage error through the server's
// Mapper and writes the resulting JSON envelope.
func (s *Server) writeError(c *gin.Context, requestID string, err error) {
	s.mu.RLock()
	pipeline := s.pipeline
	s.mu.RUnlock()

	var mapper *errs.Mapper
	if pipeline != nil {
		mapper = pipeline.Mapper
	}
	if mapper == nil {
		mapper = errs.NewMapper(true)
	}

	envelope, status := mapper.Map(requestID, err)
	c.JSON(status, envelope)
}

// checkAdmission applies spec.md's global request-admission checks,
// ahead of route resolution: URL length, header count/size, and an
// allowlisted method set. Body size is bounded separately by the
// server's MaxRequestBodySize middleware.
func checkAdmission(r *http.Request) error {
	if !allowedMethods[r.Method] {
		return errs.New(errs.CodeValidationError, fmt.Sprintf("method %s is not allowed", r.Method)).WithStatus(http.StatusMethodNotAllowed)
	}

	if len(r.URL.String()) > maxURLLength {
		return errs.URITooLong(fmt.Sprintf("request URL exceeds %d bytes", maxURLLength))
	}

	if len(r.Header) > maxHeaderCount {
		return errs.Validation(fmt.Sprintf("request has more than %d headers", maxHeaderCount))
	}

	for name, values := range r.Header {
		if len(name) > maxHeaderName {
			return errs.Validation(fmt.Sprintf("header name %q exceeds %d bytes", name, maxHeaderName))
		}
		for _, v := range values {
			if len(v) > maxHeaderValue {
				return errs.Validation(fmt.Sprintf("header %q value exceeds %d bytes", name, maxHeaderValue))
			}
		}
	}

	return nil
}
