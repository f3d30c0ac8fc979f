package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidToken indicates the bearer token failed validation.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the caller extracted from a verified bearer token. Roles holds
// the provider's group labels, normalized to lower case, empty when the token
// carries none.
type Identity struct {
	UserID   string
	Email    string
	Username string
	Roles    []string
}

type identityContextKey struct{}

// ContextWithIdentity attaches the authenticated caller to the context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, &id)
}

// IdentityFromContext extracts the authenticated caller from the context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	v, ok := ctx.Value(identityContextKey{}).(*Identity)
	if !ok || v == nil || strings.TrimSpace(v.UserID) == "" {
		return Identity{}, false
	}
	return *v, true
}
