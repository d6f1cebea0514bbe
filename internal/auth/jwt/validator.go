package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/vyrodovalexey/avapigw/internal/observability"
)

// Validator validates bearer tokens and returns the resulting claims.
type Validator interface {
	// Validate validates a JWT token and returns the claims.
	Validate(ctx context.Context, token string) (*Claims, error)

	// ValidateWithOptions validates a JWT token with custom options.
	ValidateWithOptions(ctx context.Context, token string, opts ValidationOptions) (*Claims, error)
}

// ValidationOptions contains options for token validation.
type ValidationOptions struct {
	SkipExpirationCheck bool
	SkipIssuerCheck     bool
	SkipAudienceCheck   bool
	RequiredClaims      []string
	ClockSkew           time.Duration
}

// validator implements the Validator interface using jwx/v2.
type validator struct {
	config *Config
	key    jwk.Key
	algs   []jwa.SignatureAlgorithm
	logger observability.Logger
}

// ValidatorOption is a functional option for the validator.
type ValidatorOption func(*validator)

// WithValidatorLogger sets the logger for the validator.
func WithValidatorLogger(logger observability.Logger) ValidatorOption {
	return func(v *validator) { v.logger = logger }
}

// NewValidator creates a new Validator bound to the configured HMAC secret.
func NewValidator(config *Config, opts ...ValidatorOption) (Validator, error) {
	if config == nil {
		return nil, fmt.Errorf("jwt config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	key, err := jwk.FromRaw([]byte(config.Secret))
	if err != nil {
		return nil, NewKeyError("", "failed to load verification key", err)
	}

	algs := make([]jwa.SignatureAlgorithm, 0, len(config.Algorithms))
	for _, a := range config.Algorithms {
		var alg jwa.SignatureAlgorithm
		if err := alg.Accept(a); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, a)
		}
		algs = append(algs, alg)
	}

	v := &validator{
		config: config,
		key:    key,
		algs:   algs,
		logger: observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Validate validates a token using the validator's configured policy.
func (v *validator) Validate(ctx context.Context, token string) (*Claims, error) {
	return v.ValidateWithOptions(ctx, token, ValidationOptions{
		RequiredClaims: v.config.RequiredClaims,
		ClockSkew:      v.config.GetEffectiveClockSkew(),
	})
}

// ValidateWithOptions validates a token with the given options.
func (v *validator) ValidateWithOptions(ctx context.Context, token string, opts ValidationOptions) (*Claims, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	parseOpts := []jwt.ParseOption{
		jwt.WithKey(v.algorithm(), v.key),
		jwt.WithValidate(false), // validated manually below for precise error codes
	}

	parsed, err := jwt.Parse([]byte(token), parseOpts...)
	if err != nil {
		return nil, NewValidationError("malformed or unverifiable token", fmt.Errorf("%w: %v", ErrTokenInvalidSignature, err))
	}

	claims, err := rawClaims(parsed)
	if err != nil {
		return nil, NewValidationError("failed to decode claims", err)
	}

	skew := opts.ClockSkew
	if skew == 0 {
		skew = v.config.GetEffectiveClockSkew()
	}

	if !opts.SkipExpirationCheck {
		if err := claims.ValidWithSkew(skew); err != nil {
			cause := ErrTokenExpired
			if claims.NotBefore != nil && time.Now().Before(claims.NotBefore.Time.Add(-skew)) {
				cause = ErrTokenNotYetValid
			}
			return nil, NewValidationErrorWithClaims(err.Error(), cause, claims)
		}
	}

	if !opts.SkipIssuerCheck && v.config.Issuer != "" {
		if claims.Issuer != v.config.Issuer {
			return nil, NewValidationErrorWithClaims("issuer mismatch", ErrTokenInvalidIssuer, claims)
		}
	}

	if !opts.SkipAudienceCheck && len(v.config.Audience) > 0 {
		if !claims.Audience.ContainsAny(v.config.Audience...) {
			return nil, NewValidationErrorWithClaims("audience mismatch", ErrTokenInvalidAudience, claims)
		}
	}

	required := opts.RequiredClaims
	if len(required) == 0 {
		required = v.config.RequiredClaims
	}
	for _, name := range required {
		if _, ok := claims.GetClaim(name); !ok {
			return nil, NewValidationErrorWithClaims(fmt.Sprintf("missing required claim %q", name), ErrTokenMissingClaim, claims)
		}
	}

	return claims, nil
}

func (v *validator) algorithm() jwa.SignatureAlgorithm {
	if len(v.algs) > 0 {
		return v.algs[0]
	}
	return jwa.HS256
}

// rawClaims converts a parsed jwx token into the package's Claims shape.
func rawClaims(token jwt.Token) (*Claims, error) {
	m, err := token.AsMap(context.Background())
	if err != nil {
		return nil, err
	}
	return ParseClaims(m)
}
