package auth

import (
	"time"

	"github.com/vyrodovalexey/avapigw/internal/auth/jwt"
)

// claimsToUser converts verified JWT claims to a UserContext, applying the
// subject fallback chain (sub -> userId -> id) and the configured role,
// permission and tier claim mappings.
func claimsToUser(claims *jwt.Claims, cfg *jwt.Config) *UserContext {
	user := &UserContext{
		Issuer:   claims.Issuer,
		Audience: []string(claims.Audience),
		AuthTime: time.Now(),
		Claims:   claims.ToMap(),
	}

	if claims.ExpiresAt != nil {
		user.ExpiresAt = claims.ExpiresAt.Time
	}

	subjectFields := []string{"sub", "userId", "id"}
	if cfg != nil && cfg.ClaimMapping != nil && len(cfg.ClaimMapping.Subject) > 0 {
		subjectFields = cfg.ClaimMapping.Subject
	}
	for _, field := range subjectFields {
		if field == "sub" && claims.Subject != "" {
			user.Subject = claims.Subject
			break
		}
		if v := claims.GetStringClaim(field); v != "" {
			user.Subject = v
			break
		}
	}

	if cfg != nil && cfg.ClaimMapping != nil {
		if cfg.ClaimMapping.Roles != "" {
			user.Roles = claims.GetStringSliceClaim(cfg.ClaimMapping.Roles)
		}
		if cfg.ClaimMapping.Permissions != "" {
			user.Permissions = claims.GetStringSliceClaim(cfg.ClaimMapping.Permissions)
		}
		if cfg.ClaimMapping.Tier != "" {
			user.Tier = claims.GetStringClaim(cfg.ClaimMapping.Tier)
		}
	}

	return user
}
