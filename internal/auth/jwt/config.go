package jwt

import (
	"errors"
	"fmt"
	"time"
)

// Config represents bearer token authentication configuration.
type Config struct {
	// Algorithms is the list of allowed signing algorithms.
	Algorithms []string `yaml:"algorithms,omitempty" json:"algorithms,omitempty"`

	// Secret is the shared HMAC signing secret used to verify and mint
	// tokens. It is the gateway's single key source for this scope.
	Secret string `yaml:"secret" json:"secret"`

	// Issuer is the expected token issuer. Empty disables the check.
	Issuer string `yaml:"issuer,omitempty" json:"issuer,omitempty"`

	// Audience is the expected token audience. Empty disables the check.
	Audience []string `yaml:"audience,omitempty" json:"audience,omitempty"`

	// ClockSkew is the allowed clock skew for exp/nbf validation.
	ClockSkew time.Duration `yaml:"clockSkew,omitempty" json:"clockSkew,omitempty"`

	// RequiredClaims is a list of claims that must be present.
	RequiredClaims []string `yaml:"requiredClaims,omitempty" json:"requiredClaims,omitempty"`

	// ClaimMapping configures claim-to-identity fallback paths.
	ClaimMapping *ClaimMapping `yaml:"claimMapping,omitempty" json:"claimMapping,omitempty"`
}

// ClaimMapping configures how JWT claims are mapped to identity fields.
// Each field lists fallback claim names in priority order, matching the
// subject resolution chain of sub -> userId -> id.
type ClaimMapping struct {
	Subject     []string `yaml:"subject,omitempty" json:"subject,omitempty"`
	Roles       string   `yaml:"roles,omitempty" json:"roles,omitempty"`
	Permissions string   `yaml:"permissions,omitempty" json:"permissions,omitempty"`
	Tier        string   `yaml:"tier,omitempty" json:"tier,omitempty"`
}

// DefaultConfig returns a default JWT configuration.
func DefaultConfig() *Config {
	return &Config{
		Algorithms: []string{AlgHS256},
		ClockSkew:  5 * time.Second,
		ClaimMapping: &ClaimMapping{
			Subject:     []string{"sub", "userId", "id"},
			Roles:       "roles",
			Permissions: "permissions",
			Tier:        "tier",
		},
	}
}

// Validate validates the JWT configuration.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("jwt config is nil")
	}
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	if len(c.Algorithms) == 0 {
		c.Algorithms = []string{AlgHS256}
	}
	for _, alg := range c.Algorithms {
		if !isValidAlgorithm(alg) {
			return fmt.Errorf("invalid algorithm: %s", alg)
		}
	}
	if c.ClockSkew < 0 {
		return errors.New("clockSkew must be non-negative")
	}
	if c.ClaimMapping == nil {
		c.ClaimMapping = DefaultConfig().ClaimMapping
	}
	if len(c.ClaimMapping.Subject) == 0 {
		c.ClaimMapping.Subject = []string{"sub", "userId", "id"}
	}
	return nil
}

// isValidAlgorithm checks if an algorithm is valid.
func isValidAlgorithm(alg string) bool {
	validAlgorithms := map[string]bool{
		AlgRS256: true, AlgRS384: true, AlgRS512: true,
		AlgPS256: true, AlgPS384: true, AlgPS512: true,
		AlgES256: true, AlgES384: true, AlgES512: true,
		AlgHS256: true, AlgHS384: true, AlgHS512: true,
		AlgEdDSA: true, AlgEd25519: true,
	}
	return validAlgorithms[alg]
}

// GetEffectiveClockSkew returns the effective clock skew.
func (c *Config) GetEffectiveClockSkew() time.Duration {
	if c.ClockSkew > 0 {
		return c.ClockSkew
	}
	return 5 * time.Second
}
