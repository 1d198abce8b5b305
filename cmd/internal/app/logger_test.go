package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "unknown", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
	}

	for _, tc := range cases {
		got := parseLogLevel(tc.in)
		if got != tc.want {
			t.Fatalf("parseLogLevel(%q)=%v want=%v", tc.in, got, tc.want)
		}
	}
}

func TestNewLogger_Formats(t *testing.T) {
	t.Parallel()

	var jsonBuf bytes.Buffer
	newLogger(&jsonBuf, "info", "json", false).Info("server.start", "addr", ":3000")
	var rec map[string]any
	if err := json.Unmarshal(jsonBuf.Bytes(), &rec); err != nil {
		t.Fatalf("json format produced %q: %v", jsonBuf.String(), err)
	}
	if rec["msg"] != "server.start" || rec["addr"] != ":3000" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if _, ok := rec["source"]; !ok {
		t.Fatalf("expected source attribute in json logs")
	}

	var prettyBuf bytes.Buffer
	newLogger(&prettyBuf, "warn", "pretty", false).Info("dropped")
	if prettyBuf.Len() != 0 {
		t.Fatalf("info record written at warn level: %q", prettyBuf.String())
	}
	newLogger(&prettyBuf, "warn", "pretty", false).Warn("store.slow")
	if !strings.Contains(prettyBuf.String(), "msg=store.slow") {
		t.Fatalf("pretty format missing msg: %q", prettyBuf.String())
	}
}
