// Package app wires the auth server runtime: config, logging, credential
// storage, session codec and carrier, and the HTTP router.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"auth/cmd/identity"
	authapi "auth/cmd/internal/auth/api"
	"auth/cmd/internal/auth/session"
	"auth/cmd/security/password"
	"auth/cmd/security/token"
)

// credentialStore is what the runtime needs from a persistence backend.
type credentialStore interface {
	identity.Store
	Ping(ctx context.Context) error
}

// Storage is the selected credential backend plus its lifecycle.
type Storage struct {
	Store credentialStore
	// Backend is "postgres", "sqlite" or "memory".
	Backend string
	close   func() error
}

// Persistent reports whether records survive a restart.
func (s Storage) Persistent() bool { return s.Backend != "memory" }

// Close releases backend resources (pool, file handle).
func (s Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// App is the auth server runtime.
type App struct {
	cfg Config
	log Logger

	storage Storage
	metrics *Metrics
	auth    *authapi.Handler
	handler http.Handler
}

// New constructs a fully wired App instance from config and logger.
// A missing token signing key is fatal and surfaces as session.ErrSigningKeyMissing.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogColor)
	}

	if err := ValidateSecurityConfig(cfg); err != nil {
		return nil, err
	}

	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	codec, err := session.NewCodec(sessCfg)
	if err != nil {
		return nil, err
	}
	carrier, err := session.NewCookieCarrier(sessCfg.Cookie)
	if err != nil {
		return nil, err
	}

	pwCfg, err := password.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("password config: %w", err)
	}
	hasher := identity.NewArgon2Hasher(pwCfg)

	st, err := newStorage(context.Background(), cfg, hasher, log)
	if err != nil {
		return nil, err
	}

	var metrics *Metrics
	var opts []authapi.HandlerOption
	if cfg.MetricsEnabled {
		metrics = NewMetrics()
		opts = append(opts, authapi.WithEventRecorder(metrics))
	}

	authHandler, err := authapi.NewHandler(log, authapi.LoadConfigFromEnv(), authapi.Deps{
		Store:    st.Store,
		Hasher:   hasher,
		Password: pwCfg,
		Codec:    codec,
		Carrier:  carrier,
	}, opts...)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	log.Info("session.config",
		"format", sessCfg.Format,
		"issuer", sessCfg.Issuer,
		"ttl", sessCfg.TokenTTL.String(),
		"cookie", sessCfg.Cookie.Name,
		"cookie_secure", sessCfg.Cookie.Secure,
		"cookie_key_dedicated", token.CookieKeyConfigured(),
	)

	a := &App{
		cfg:     cfg,
		log:     log,
		storage: st,
		metrics: metrics,
		auth:    authHandler,
	}
	a.handler = newRouter(log, cfg, st, metrics, authHandler)
	return a, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

// Close releases storage resources without serving.
func (a *App) Close() error { return a.storage.Close() }

// Run starts the HTTP server and blocks until context cancellation or fatal server error.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start",
		"addr", a.cfg.HTTPAddr,
		"base_url", runtimeBaseURL(a.cfg.HTTPAddr),
		"store", a.storage.Backend,
		"metrics", a.metrics != nil,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		_ = a.storage.Close()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), nonZeroDuration(a.cfg.ShutdownTimeout, 10*time.Second))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		_ = a.storage.Close()
		return err
	}

	if err := a.storage.Close(); err != nil {
		a.log.Error("store.close.fail", "err", err)
	}

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// runtimeBaseURL turns a listen address into a URL a local client can dial.
// Wildcard hosts map to 127.0.0.1.
func runtimeBaseURL(addr string) string {
	host, port, err := net.SplitHostPort(strings.TrimSpace(addr))
	if err != nil {
		return "http://" + addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// newStorage picks Postgres, then SQLite, then the in-memory store.
func newStorage(ctx context.Context, cfg Config, hasher identity.PasswordHasher, log Logger) (Storage, error) {
	switch {
	case cfg.DatabaseURL != "":
		pool, err := NewDBPool(ctx, cfg)
		if err != nil {
			return Storage{}, fmt.Errorf("postgres: %w", err)
		}

		// The app owns the pool; PostgresStore never closes it.
		st, err := identity.NewPostgresStore(pool, hasher, identity.WithSchema(cfg.DBSchema))
		if err != nil {
			pool.Close()
			return Storage{}, err
		}
		if cfg.DBAutoMigrate {
			if err := st.Migrate(ctx); err != nil {
				pool.Close()
				return Storage{}, err
			}
		}

		log.Info("db.enabled.postgres_store", "schema", cfg.DBSchema, "auto_migrate", cfg.DBAutoMigrate)
		return Storage{
			Store:   st,
			Backend: "postgres",
			close: func() error {
				pool.Close()
				return nil
			},
		}, nil

	case cfg.SQLitePath != "":
		st, err := identity.OpenSQLiteStore(cfg.SQLitePath, hasher)
		if err != nil {
			return Storage{}, fmt.Errorf("sqlite: %w", err)
		}
		log.Info("db.enabled.sqlite_store", "path", cfg.SQLitePath)
		return Storage{Store: st, Backend: "sqlite", close: st.Close}, nil

	default:
		log.Info("db.disabled.inmemory_store")
		st := identity.NewMemoryStore(hasher)
		return Storage{Store: st, Backend: "memory", close: st.Close}, nil
	}
}
