package auth

import "context"

// AuthenticatedPrincipal captures identity metadata propagated through the
// request context. One is attached per request by the authentication
// middleware and discarded when the request completes.
type AuthenticatedPrincipal struct {
	// Identity is the principal's unique email.
	Identity string
	// Role is the role claim embedded in the presented token. It stays
	// authoritative for the token's lifetime even if the stored role is
	// later changed; see the authentication middleware.
	Role Role
}

type principalContextKey struct{}

// SetUserContext stores the authenticated principal on the context for
// downstream consumers. If a principal is already present it is kept; an
// earlier authentication result is never overwritten.
func SetUserContext(ctx context.Context, principal AuthenticatedPrincipal) context.Context {
	if _, ok := GetUserFromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// GetUserFromContext retrieves the authenticated principal from the context.
func GetUserFromContext(ctx context.Context) (AuthenticatedPrincipal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(AuthenticatedPrincipal)
	return principal, ok
}
