package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/vyrodovalexey/avapigw/internal/observability"
)

// Signer signs JWT tokens. It exists primarily to support the gateway's
// non-production "mint test token" administrative operation.
type Signer interface {
	Sign(ctx context.Context, claims *Claims) (string, error)
	SignWithOptions(ctx context.Context, claims *Claims, opts SigningOptions) (string, error)
}

// SigningOptions contains options for token signing.
type SigningOptions struct {
	Algorithm   string
	ExpiresIn   time.Duration
	NotBefore   time.Time
	Issuer      string
	Audience    []string
	GenerateJTI bool
}

// signer implements the Signer interface using jwx for HMAC signing.
type signer struct {
	config *Config
	key    jwk.Key
	logger observability.Logger
}

// SignerOption is a functional option for the signer.
type SignerOption func(*signer)

// WithSignerLogger sets the logger for the signer.
func WithSignerLogger(logger observability.Logger) SignerOption {
	return func(s *signer) { s.logger = logger }
}

// NewSigner creates a new Signer bound to the configured HMAC secret.
func NewSigner(config *Config, opts ...SignerOption) (Signer, error) {
	if config == nil {
		return nil, NewSigningError("config is required", nil)
	}
	key, err := jwk.FromRaw([]byte(config.Secret))
	if err != nil {
		return nil, NewSigningError("failed to load signing key", err)
	}
	if err := key.Set(jwk.AlgorithmKey, jwa.HS256); err != nil {
		return nil, NewSigningError("failed to set key algorithm", err)
	}

	s := &signer{
		config: config,
		key:    key,
		logger: observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Sign creates a signed JWT token using the signer's default options.
func (s *signer) Sign(ctx context.Context, claims *Claims) (string, error) {
	return s.SignWithOptions(ctx, claims, SigningOptions{
		Algorithm:   AlgHS256,
		ExpiresIn:   time.Hour,
		GenerateJTI: true,
	})
}

// SignWithOptions creates a signed JWT token with custom options.
func (s *signer) SignWithOptions(ctx context.Context, claims *Claims, opts SigningOptions) (string, error) {
	if claims == nil {
		claims = &Claims{}
	}

	builder := jwt.NewBuilder()

	issuer := opts.Issuer
	if issuer == "" {
		issuer = claims.Issuer
	}
	if issuer != "" {
		builder = builder.Issuer(issuer)
	}

	if claims.Subject != "" {
		builder = builder.Subject(claims.Subject)
	}

	audience := opts.Audience
	if len(audience) == 0 {
		audience = claims.Audience
	}
	if len(audience) > 0 {
		builder = builder.Audience(audience)
	}

	now := time.Now()
	builder = builder.IssuedAt(now)

	expiresIn := opts.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}
	builder = builder.Expiration(now.Add(expiresIn))

	if !opts.NotBefore.IsZero() {
		builder = builder.NotBefore(opts.NotBefore)
	}

	if opts.GenerateJTI {
		builder = builder.JwtID(uuid.NewString())
	}

	for k, v := range claims.Extra {
		builder = builder.Claim(k, v)
	}

	token, err := builder.Build()
	if err != nil {
		return "", NewSigningError("failed to build token", err)
	}

	alg := jwa.HS256
	if opts.Algorithm != "" {
		if err := alg.Accept(opts.Algorithm); err != nil {
			return "", NewSigningError(fmt.Sprintf("unsupported algorithm: %s", opts.Algorithm), err)
		}
	}

	signed, err := jwt.Sign(token, jwt.WithKey(alg, s.key))
	if err != nil {
		return "", NewSigningError("failed to sign token", err)
	}

	return string(signed), nil
}
