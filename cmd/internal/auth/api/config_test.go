package authapi

import "testing"

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("AUTH_MAX_BODY_BYTES", "2048")
	t.Setenv("AUTH_ROUTE_PREFIX", "api/users/")
	t.Setenv("AUTH_TRUST_PROXY", "true")

	cfg := LoadConfigFromEnv()
	if cfg.MaxBodyBytes != 2048 {
		t.Fatalf("max body bytes=%d", cfg.MaxBodyBytes)
	}
	if cfg.RoutePrefix != "/api/users" {
		t.Fatalf("route prefix=%q", cfg.RoutePrefix)
	}
	if !cfg.TrustProxy {
		t.Fatalf("expected trust proxy")
	}
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("AUTH_MAX_BODY_BYTES", "-1")
	t.Setenv("AUTH_ROUTE_PREFIX", " / ")
	t.Setenv("AUTH_TRUST_PROXY", "nope")

	cfg := LoadConfigFromEnv()
	if cfg.MaxBodyBytes != 1<<20 {
		t.Fatalf("expected default body limit, got %d", cfg.MaxBodyBytes)
	}
	if cfg.RoutePrefix != "" {
		t.Fatalf("expected empty prefix, got %q", cfg.RoutePrefix)
	}
	if cfg.TrustProxy {
		t.Fatalf("expected trust proxy off")
	}
}
