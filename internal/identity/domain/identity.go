package domain

import "context"

// Identity is the authenticated caller of a request, taken from a verified access token.
type Identity struct {
	UserID string
	Email  string
}

// Authenticated reports whether the identity names a user.
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

type contextKey struct{ name string }

var identityKey = contextKey{"identity"}

// NewContext returns a context carrying id. The auth middleware sets it for protected routes.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext returns the identity stored in ctx and true if set; otherwise a zero Identity, false.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.Authenticated()
}
