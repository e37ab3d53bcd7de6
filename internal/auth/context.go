package auth

import "context"

// Identity captures the claims embedded in a bearer token. It is attached to
// the request context once per request and never mutated downstream.
type Identity struct {
	// UserID references the backing users row.
	UserID string
	// Username is the public handle used for ownership checks.
	Username string
}

type identityContextKey struct{}

// SetIdentity stores the verified identity on the context for downstream guards.
func SetIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext retrieves the verified identity from the context.
// ok is false for anonymous requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(Identity)
	return identity, ok
}
