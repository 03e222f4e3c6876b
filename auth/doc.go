// Package auth provides producer authentication for the write side of the
// stream API.
//
// Subpackages:
//
//   - auth/jwt     generic HMAC JWT token service
//   - auth/authctx type-safe request context propagation for claims
//
// The top-level package holds the TokenValidator contract the middleware
// depends on, the service Config, and ProducerClaims, whose optional
// stream patterns restrict which registry keys a token may write to.
//
//	auth:
//	  enabled: true
//	  jwt:
//	    secret: "change-me-to-32-bytes-or-more..."
//	    access_token_ttl: "1h"
package auth
