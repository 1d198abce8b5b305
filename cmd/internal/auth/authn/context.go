// Package authn resolves the caller's identity from the session carrier and
// gates routes that require one.
package authn

import "context"

// Identity is the authenticated caller as recovered from a verified token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the resolved identity, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(identityKey{}).(Identity)
	return v, ok && v.ID != ""
}
