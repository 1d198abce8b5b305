package app

import (
	"reflect"
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("AUTH_T_STR", "  value ")
	t.Setenv("AUTH_T_BOOL", "nope")
	t.Setenv("AUTH_T_INT", "-3")
	t.Setenv("AUTH_T_DUR", "250ms")
	t.Setenv("AUTH_T_CSV", " https://a.example.com, ,http://127.0.0.1:* ")

	if got := EnvString("AUTH_T_STR", "def"); got != "value" {
		t.Fatalf("EnvString=%q", got)
	}
	if got := EnvString("AUTH_T_UNSET", "def"); got != "def" {
		t.Fatalf("EnvString default=%q", got)
	}
	if got := EnvBool("AUTH_T_BOOL", true); !got {
		t.Fatalf("EnvBool must fall back on parse error")
	}
	if got := EnvInt("AUTH_T_INT", 7); got != 7 {
		t.Fatalf("EnvInt must reject non-positive values, got %d", got)
	}
	if got := EnvInt32("AUTH_T_INT", 5); got != 5 {
		t.Fatalf("EnvInt32 must reject negative values, got %d", got)
	}
	if got := EnvDuration("AUTH_T_DUR", time.Second); got != 250*time.Millisecond {
		t.Fatalf("EnvDuration=%v", got)
	}

	want := []string{"https://a.example.com", "http://127.0.0.1:*"}
	if got := EnvCSV("AUTH_T_CSV"); !reflect.DeepEqual(got, want) {
		t.Fatalf("EnvCSV=%v want=%v", got, want)
	}
	if got := EnvCSV("AUTH_T_UNSET"); got != nil {
		t.Fatalf("EnvCSV unset=%v want nil", got)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{
		"AUTH_HTTP_ADDR", "AUTH_DATABASE_URL", "AUTH_SQLITE_PATH",
		"AUTH_DB_SCHEMA", "AUTH_DB_AUTO_MIGRATE", "AUTH_METRICS_ENABLED",
		"AUTH_CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	if cfg.HTTPAddr != "0.0.0.0:3000" {
		t.Fatalf("HTTPAddr=%q", cfg.HTTPAddr)
	}
	if cfg.DatabaseURL != "" || cfg.SQLitePath != "" {
		t.Fatalf("expected no persistent store by default")
	}
	if cfg.DBSchema != "auth" || !cfg.DBAutoMigrate {
		t.Fatalf("unexpected db defaults: schema=%q migrate=%v", cfg.DBSchema, cfg.DBAutoMigrate)
	}
	if !cfg.MetricsEnabled {
		t.Fatalf("metrics should default on")
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Fatalf("CORS allowlist should default empty")
	}
}
