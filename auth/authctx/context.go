// Package authctx carries authenticated claims through a request context.
//
//	ctx = authctx.Set(ctx, claims)              // in middleware
//	claims, ok := authctx.Get[*auth.ProducerClaims](ctx) // in handlers
package authctx

import (
	"context"
	"errors"
)

type contextKey struct{}

var claimsKey = contextKey{}

var (
	// ErrNoClaims is returned by Require when the context carries no claims.
	ErrNoClaims = errors.New("authctx: no claims in context")
	// ErrClaimsType is returned by Require when the context carries claims
	// of a different type than requested.
	ErrClaimsType = errors.New("authctx: unexpected claims type")
)

// Set stores authentication claims in the context.
func Set(ctx context.Context, claims any) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// Get retrieves typed claims from the context. It returns false when the
// context has no claims or they are of a different type.
func Get[T any](ctx context.Context) (T, bool) {
	claims, ok := ctx.Value(claimsKey).(T)
	return claims, ok
}

// Require is Get with an error instead of a boolean. It tells a request
// that was never authenticated (ErrNoClaims) apart from one whose claims
// are of another type (ErrClaimsType).
func Require[T any](ctx context.Context) (T, error) {
	v := ctx.Value(claimsKey)
	if v == nil {
		var zero T
		return zero, ErrNoClaims
	}
	claims, ok := v.(T)
	if !ok {
		return claims, ErrClaimsType
	}
	return claims, nil
}
