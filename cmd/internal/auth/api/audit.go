package authapi

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// Auth actions and results reported to the EventRecorder.
const (
	actionSignup  = "signup"
	actionSignin  = "signin"
	actionSignout = "signout"
	actionMe      = "me"

	resultSuccess      = "success"
	resultInvalidInput = "invalid_input"
	resultEmailInUse   = "email_in_use"
	resultBadPassword  = "bad_password"
	resultUnknownEmail = "unknown_email"
	resultUserMissing  = "user_missing"
	resultError        = "error"
)

// EventRecorder counts auth outcomes, e.g. into a Prometheus counter vector.
type EventRecorder interface {
	RecordAuthEvent(action, result string)
}

type noopRecorder struct{}

func (noopRecorder) RecordAuthEvent(string, string) {}

// audit writes one structured record per auth outcome and counts it.
// Emails and passwords are never logged.
func (h *Handler) audit(r *http.Request, action, result string, userID string) {
	h.events.RecordAuthEvent(action, result)

	attrs := []any{
		"ip", ipString(clientIP(r, h.cfg.TrustProxy)),
		"user_agent", strings.TrimSpace(r.UserAgent()),
	}
	if userID != "" {
		attrs = append(attrs, "user_id", userID)
	}

	level := slog.LevelInfo
	if result != resultSuccess {
		level = slog.LevelWarn
	}
	h.log.Log(r.Context(), level, "auth."+action+"."+result, attrs...)
}

func ipString(ip net.IP) string {
	if ip == nil {
		return ""
	}
	return ip.String()
}

func clientIP(r *http.Request, trustProxy bool) net.IP {
	if trustProxy {
		if ip := parseForwardedIP(r.Header.Get("X-Forwarded-For")); ip != nil {
			return ip
		}
		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil {
		if ip := net.ParseIP(host); ip != nil {
			return ip
		}
	}
	return nil
}

func parseForwardedIP(raw string) net.IP {
	if raw == "" {
		return nil
	}
	for _, p := range strings.Split(raw, ",") {
		if ip := net.ParseIP(strings.TrimSpace(p)); ip != nil {
			return ip
		}
	}
	return nil
}
