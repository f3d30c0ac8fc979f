package httpapi

import (
	"net/http"
	"strings"

	"clubhub.org/internal/auth"
)

// Authenticate verifies a bearer token when one is supplied and attaches the
// caller's identity to the context. Requests without an Authorization header
// pass through unauthenticated; the per-route guards decide whether that is
// acceptable. A present but invalid token always fails with 401.
func Authenticate(v auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(raw, prefix) {
				unauthorized(w, "Invalid authorization header")
				return
			}
			id, err := v.Verify(r.Context(), strings.TrimSpace(raw[len(prefix):]))
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), id)))
		})
	}
}

// RequireAuth rejects unauthenticated requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.IdentityFromContext(r.Context()); !ok {
			unauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects unauthenticated requests with 401 and authenticated
// callers lacking any of the given roles with 403.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				unauthorized(w, "Authentication required")
				return
			}
			if !auth.Authorize(roles, id.Roles) {
				writeFailure(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="clubhub"`)
	writeFailure(w, http.StatusUnauthorized, message)
}
