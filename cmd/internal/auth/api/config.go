package authapi

import (
	"os"
	"strconv"
	"strings"
)

// Config controls auth API behavior.
type Config struct {
	// MaxBodyBytes caps request bodies on signup/signin.
	MaxBodyBytes int64
	// RoutePrefix mounts the endpoints under a path such as "/api/users".
	// Empty mounts them at the router root.
	RoutePrefix string
	// TrustProxy takes the client IP for audit records from X-Forwarded-For / X-Real-IP.
	TrustProxy bool
}

// DefaultConfig returns the configuration used when no env overrides are present.
func DefaultConfig() Config {
	return Config{MaxBodyBytes: 1 << 20} // 1 MiB
}

// LoadConfigFromEnv loads auth config from environment variables with safe defaults.
func LoadConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.MaxBodyBytes = envInt64("AUTH_MAX_BODY_BYTES", cfg.MaxBodyBytes)
	cfg.RoutePrefix = normalizePrefix(os.Getenv("AUTH_ROUTE_PREFIX"))
	cfg.TrustProxy = envBool("AUTH_TRUST_PROXY", false)
	return cfg
}

// normalizePrefix returns "" or a path that starts with "/" and has no trailing "/".
func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
