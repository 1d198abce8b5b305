package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string // json | pretty
	LogColor  bool

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int

	// Credential storage: Postgres when DatabaseURL is set, else SQLite when
	// SQLitePath is set, else an in-memory store.
	DatabaseURL   string
	DBMaxConns    int32
	DBMinConns    int32
	DBSchema      string
	DBAutoMigrate bool
	SQLitePath    string

	// If true:
	// - /readyz returns 503 unless a persistent store is configured and reachable.
	ReadinessRequireDB bool

	MetricsEnabled bool

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int

	// Security policy:
	// If true, AUTH_COOKIE_KEY MUST be set (>= 32 bytes) instead of reusing the token key.
	RequireCookieKey bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("AUTH_HTTP_ADDR", "0.0.0.0:3000"),
		LogLevel:  EnvString("AUTH_LOG_LEVEL", "info"),
		LogFormat: EnvString("AUTH_LOG_FORMAT", "json"),
		LogColor:  EnvBool("AUTH_LOG_COLOR", false),

		ReadHeaderTimeout: EnvDuration("AUTH_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("AUTH_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("AUTH_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("AUTH_HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   EnvDuration("AUTH_HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),

		MaxHeaderBytes: EnvInt("AUTH_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL:   EnvString("AUTH_DATABASE_URL", ""),
		DBMaxConns:    EnvInt32("AUTH_DB_MAX_CONNS", 10),
		DBMinConns:    EnvInt32("AUTH_DB_MIN_CONNS", 0),
		DBSchema:      EnvString("AUTH_DB_SCHEMA", "auth"),
		DBAutoMigrate: EnvBool("AUTH_DB_AUTO_MIGRATE", true),
		SQLitePath:    EnvString("AUTH_SQLITE_PATH", ""),

		ReadinessRequireDB: EnvBool("AUTH_READINESS_REQUIRE_DB", false),

		MetricsEnabled: EnvBool("AUTH_METRICS_ENABLED", true),

		CORSAllowedOrigins:   EnvCSV("AUTH_CORS_ALLOWED_ORIGINS"),
		CORSAllowCredentials: EnvBool("AUTH_CORS_ALLOW_CREDENTIALS", true),
		CORSMaxAgeSeconds:    EnvInt("AUTH_CORS_MAX_AGE_SECONDS", 600),

		RequireCookieKey: EnvBool("AUTH_REQUIRE_COOKIE_KEY", false),
	}
}
