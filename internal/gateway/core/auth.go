package core

import (
	"context"
	"errors"

	"github.com/vyrodovalexey/avapigw/internal/auth"
	"go.uber.org/zap"
)

// ErrNoAuthenticator is returned when AuthCore is used without a configured
// Authenticator.
var ErrNoAuthenticator = errors.New("no authenticator configured")

// AuthCore provides protocol-agnostic bearer-token authentication, shared by
// the HTTP binding and any future transport binding.
type AuthCore struct {
	authenticator  *auth.Authenticator
	logger         *zap.Logger
	skipPaths      map[string]bool
	anonymousPaths map[string]bool
	config         AuthCoreConfig
}

// NewAuthCore creates a new AuthCore with the given configuration.
func NewAuthCore(config AuthCoreConfig) *AuthCore {
	config.InitSkipPaths()
	config.InitAnonymousPaths()

	return &AuthCore{
		logger:         config.GetLogger(),
		skipPaths:      config.skipPathMap,
		anonymousPaths: config.anonymousPathMap,
		config:         config,
	}
}

// WithAuthenticator sets the Authenticator used to verify bearer tokens.
func (c *AuthCore) WithAuthenticator(authenticator *auth.Authenticator) *AuthCore {
	c.authenticator = authenticator
	return c
}

// Authenticate verifies the given bearer token and returns the resulting
// UserContext. required selects whether a missing token is an error.
func (c *AuthCore) Authenticate(ctx context.Context, token string, required bool) (*auth.UserContext, error) {
	if c.authenticator == nil {
		return nil, ErrNoAuthenticator
	}

	mode := auth.ModeRequired
	if !required {
		mode = auth.ModeOptional
	}

	user, err := c.authenticator.Authenticate(ctx, token, mode)
	if err != nil {
		c.logger.Debug("authentication failed", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// Authorize checks the any-of role/permission requirements for a route.
func (c *AuthCore) Authorize(user *auth.UserContext, requiredRoles, requiredPermissions []string) error {
	return auth.Authorize(user, requiredRoles, requiredPermissions)
}

// ShouldSkip checks if the given path should skip authentication entirely.
func (c *AuthCore) ShouldSkip(path string) bool {
	if c.skipPaths == nil {
		return false
	}
	return c.skipPaths[path]
}

// IsAnonymousPath checks if the given path allows anonymous access.
func (c *AuthCore) IsAnonymousPath(path string) bool {
	if !c.config.AllowAnonymous {
		return false
	}
	if c.anonymousPaths == nil {
		return false
	}
	return c.anonymousPaths[path]
}

// RequireAuth returns whether authentication is required by default.
func (c *AuthCore) RequireAuth() bool {
	return c.config.RequireAuth
}

// AllowAnonymous returns whether anonymous access is allowed.
func (c *AuthCore) AllowAnonymous() bool {
	return c.config.AllowAnonymous
}
