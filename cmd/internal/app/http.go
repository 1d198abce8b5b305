package app

import (
	"context"
	"net/http"
	"time"

	authapi "auth/cmd/internal/auth/api"
	"auth/cmd/internal/httperr"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const readinessTimeout = 2 * time.Second

func newRouter(log Logger, cfg Config, st Storage, metrics *Metrics, auth *authapi.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(func(next http.Handler) http.Handler { return WithRequestLogging(next, log) })
	r.Use(func(next http.Handler) http.Handler { return WithRecover(next, log) })
	if metrics != nil {
		r.Use(metrics.Middleware)
	}
	r.Use(WithSecurityHeaders)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(func(next http.Handler) http.Handler { return WithCORS(next, cfg, log) })
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperr.Write(w, httperr.NotFound())
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperr.Write(w, httperr.MethodNotAllowed())
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.ReadinessRequireDB && !st.Persistent() {
			http.Error(w, "db not configured", http.StatusServiceUnavailable)
			return
		}

		if st.Store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			defer cancel()
			if err := st.Store.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				log.Info("readyz.db.not_ready", "store", st.Backend, "err", err)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready\n"))
	})

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	if auth != nil {
		auth.Register(r)
	}

	return r
}
