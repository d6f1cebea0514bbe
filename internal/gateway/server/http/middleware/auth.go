package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/avapigw/internal/auth"
	"github.com/vyrodovalexey/avapigw/internal/gateway/core"
)

// AuthConfig holds configuration for the bearer-token auth middleware.
type AuthConfig struct {
	Authenticator *auth.Authenticator
	Logger        *zap.Logger

	// RequireAuth indicates whether authentication is required by default.
	RequireAuth bool

	// AllowAnonymous indicates whether anonymous access is allowed.
	AllowAnonymous bool

	// AnonymousPaths is a list of paths that allow anonymous access
	// regardless of RequireAuth.
	AnonymousPaths []string

	// RequiredRoles/RequiredPermissions are any-of authorization
	// requirements evaluated after a successful authentication.
	RequiredRoles       []string
	RequiredPermissions []string
}

// DefaultAuthConfig returns an AuthConfig with default values.
func DefaultAuthConfig() *AuthConfig {
	return &AuthConfig{
		RequireAuth:    true,
		AllowAnonymous: false,
	}
}

// authMiddlewareContext holds the context for auth middleware processing.
type authMiddlewareContext struct {
	config   *AuthConfig
	authCore *core.AuthCore
}

// newAuthMiddlewareContext creates and initializes the auth middleware context.
func newAuthMiddlewareContext(config *AuthConfig) *authMiddlewareContext {
	if config == nil {
		config = DefaultAuthConfig()
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	coreConfig := core.AuthCoreConfig{
		BaseConfig: core.BaseConfig{
			Logger: config.Logger,
		},
		RequireAuth:    config.RequireAuth,
		AllowAnonymous: config.AllowAnonymous,
		AnonymousPaths: config.AnonymousPaths,
	}

	authCore := core.NewAuthCore(coreConfig).WithAuthenticator(config.Authenticator)

	return &authMiddlewareContext{
		config:   config,
		authCore: authCore,
	}
}

// handleAuthRequired writes the unauthorized response for a failed or
// missing authentication attempt.
func handleAuthRequired(c *gin.Context, logger *zap.Logger, path string, err error) {
	logger.Debug("authentication failed",
		zap.String("path", path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": "authentication required",
	})
}

// Auth returns a middleware that authenticates the bearer token on the
// request and, when configured, authorizes it against required roles or
// permissions.
func Auth(config *AuthConfig) gin.HandlerFunc {
	mctx := newAuthMiddlewareContext(config)

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		ctx := c.Request.Context()

		if mctx.authCore.IsAnonymousPath(path) {
			c.Next()
			return
		}

		extractor := mctx.config.Authenticator.Extractor()
		token, _ := extractor.Extract(c.Request)

		user, err := mctx.authCore.Authenticate(ctx, token, mctx.authCore.RequireAuth())
		if err != nil {
			handleAuthRequired(c, mctx.config.Logger, path, err)
			return
		}

		if user != nil {
			ctx = auth.ContextWithUser(ctx, user)
			c.Request = c.Request.WithContext(ctx)
		}

		if err := mctx.authCore.Authorize(user, mctx.config.RequiredRoles, mctx.config.RequiredPermissions); err != nil {
			mctx.config.Logger.Debug("authorization denied",
				zap.String("path", path),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "access denied",
			})
			return
		}

		c.Next()
	}
}

// OptionalAuth returns a middleware that attempts authentication but treats
// a missing token as anonymous access.
func OptionalAuth(config *AuthConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultAuthConfig()
	}
	config.RequireAuth = false
	config.AllowAnonymous = true

	return Auth(config)
}

// RequireRoles returns a middleware that requires the authenticated user to
// hold at least one of the given roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.UserFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "authentication required",
			})
			return
		}

		if !user.HasAnyRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "insufficient permissions",
			})
			return
		}

		c.Next()
	}
}

// RequirePermissions returns a middleware that requires the authenticated
// user to hold at least one of the given permissions.
func RequirePermissions(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.UserFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "authentication required",
			})
			return
		}

		if !user.HasAnyPermission(permissions...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "insufficient permissions",
			})
			return
		}

		c.Next()
	}
}

// GetUser returns the authenticated UserContext from the gin request context.
func GetUser(c *gin.Context) (*auth.UserContext, bool) {
	return auth.UserFromContext(c.Request.Context())
}

// SkipAuth returns a middleware that marks the request to skip authentication.
func SkipAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("skip_auth", true)
		c.Next()
	}
}

// ShouldSkipAuth checks if authentication should be skipped.
func ShouldSkipAuth(c *gin.Context) bool {
	skip, exists := c.Get("skip_auth")
	if !exists {
		return false
	}
	return skip.(bool)
}
