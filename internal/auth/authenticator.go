package auth

import (
	"context"
	"errors"

	"github.com/vyrodovalexey/avapigw/internal/auth/jwt"
)

// Mode controls how a missing bearer token is treated.
type Mode int

const (
	// ModeRequired rejects requests that present no token.
	ModeRequired Mode = iota
	// ModeOptional allows requests with no token through as anonymous,
	// but still rejects a token that fails verification.
	ModeOptional
)

// Config holds the Authenticator's configuration.
type Config struct {
	JWT *jwt.Config
}

// Authenticator verifies bearer tokens and produces a UserContext.
type Authenticator struct {
	validator jwt.Validator
	config    *jwt.Config
	extractor jwt.TokenExtractor
}

// New creates a new Authenticator.
func New(cfg *Config) (*Authenticator, error) {
	if cfg == nil || cfg.JWT == nil {
		return nil, errors.New("auth: jwt configuration is required")
	}
	v, err := jwt.NewValidator(cfg.JWT)
	if err != nil {
		return nil, err
	}
	return &Authenticator{
		validator: v,
		config:    cfg.JWT,
		extractor: jwt.DefaultExtractor(),
	}, nil
}

// Authenticate verifies the bearer token extracted from the request and
// returns the resulting UserContext. mode determines whether a missing
// token is an error (ModeRequired) or results in a nil, no-error
// UserContext (ModeOptional).
func (a *Authenticator) Authenticate(ctx context.Context, token string, mode Mode) (*UserContext, error) {
	if token == "" {
		if mode == ModeOptional {
			return nil, nil
		}
		return nil, ErrMissingToken
	}

	claims, err := a.validator.Validate(ctx, token)
	if err != nil {
		return nil, mapValidationError(err)
	}

	return claimsToUser(claims, a.config), nil
}

// Extract pulls the bearer token out of an HTTP request's Authorization header.
func (a *Authenticator) Extract(token string) string {
	return token
}

// Extractor exposes the configured token extractor for HTTP binding code.
func (a *Authenticator) Extractor() jwt.TokenExtractor {
	return a.extractor
}

// Authorize checks the any-of role/permission requirements for a route.
// Empty requirement lists are always satisfied.
func Authorize(user *UserContext, requiredRoles, requiredPermissions []string) error {
	if user == nil {
		return ErrAuthenticationRequired
	}
	if len(requiredRoles) > 0 && !user.HasAnyRole(requiredRoles...) {
		return ErrInsufficientPermissions
	}
	if len(requiredPermissions) > 0 && !user.HasAnyPermission(requiredPermissions...) {
		return ErrInsufficientPermissions
	}
	return nil
}

// Sentinel errors surfaced to the pipeline's error mapper.
var (
	ErrMissingToken           = errors.New("missing bearer token")
	ErrAuthenticationRequired = errors.New("authentication required")
)

// mapValidationError normalizes jwt package errors into the auth package's
// taxonomy so the pipeline's error mapper has a single set of sentinels to
// match against regardless of which validator produced the failure.
func mapValidationError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotYetValid):
		return ErrTokenNotYetValid
	case errors.Is(err, jwt.ErrTokenMissingClaim):
		return ErrMissingClaim
	default:
		return ErrInvalidToken
	}
}
