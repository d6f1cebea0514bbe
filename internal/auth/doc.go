// Package auth implements the gateway's bearer-token Authenticator.
//
// A route's authRequired flag selects between required and optional
// authentication mode; in both modes a present token must verify, but
// only required mode rejects the request outright when no token is
// supplied. Verified tokens are resolved to a UserContext attached to
// the request context for downstream role/permission checks and for
// the X-User-* headers the dispatcher injects upstream.
//
//	authr, err := auth.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	user, err := authr.Authenticate(ctx, bearerToken)
package auth
