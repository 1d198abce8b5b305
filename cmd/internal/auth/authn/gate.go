package authn

import (
	"net/http"

	"auth/cmd/internal/httperr"
)

// RequireAuth rejects requests without a resolved identity with 401.
// It must run after Resolver.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				httperr.Write(w, httperr.Unauthorized())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
