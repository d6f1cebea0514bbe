// Package jwt implements bearer token verification and minting for the
// gateway's Authenticator component.
//
// Token parsing, signature verification, and standard claim validation
// (exp/nbf/iat) are delegated to github.com/lestrrat-go/jwx/v2; this
// package owns the claims-to-UserContext mapping, the configured
// algorithm/issuer/audience policy, and the sentinel/structured error
// taxonomy the rest of the gateway matches on.
//
// # Validation
//
//	v, err := jwt.NewValidator(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	user, err := v.Validate(ctx, tokenString)
//	if err != nil {
//	    // Handle invalid token
//	}
package jwt
