package authn

import (
	"log/slog"
	"net/http"
	"time"

	"auth/cmd/internal/auth/session"
)

// Resolver annotates each request with the identity carried in its session
// token. It never rejects a request: a missing or invalid token leaves the
// request anonymous.
func Resolver(carrier session.Carrier, codec session.Codec, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := carrier.Extract(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := codec.Verify(tok, time.Now().UTC())
			if err != nil {
				// Stale or forged cookies are common; keep this below the default level.
				log.Debug("auth.resolve.invalid_token", "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			id := Identity{ID: claims.UserID, Email: claims.Email}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
