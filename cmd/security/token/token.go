package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
)

const (
	// CookieKeyEnv is the env var name for the cookie signing secret.
	// #nosec G101 -- not a credential; it's an environment variable name.
	CookieKeyEnv = "AUTH_COOKIE_KEY"

	// MinKeyBytes is the recommended minimum for an HMAC-SHA256 secret.
	MinKeyBytes = 32
)

// HashHMACSHA256Hex returns an HMAC-SHA256 hex digest of s using key.
func HashHMACSHA256Hex(s string, key []byte) string {
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(s))
	return hex.EncodeToString(m.Sum(nil))
}

// VerifyHMACSHA256Hex reports whether sigHex is the HMAC-SHA256 of s under key.
// The comparison is constant-time over the decoded digest.
func VerifyHMACSHA256Hex(s, sigHex string, key []byte) bool {
	if len(key) == 0 || len(sigHex) != 64 {
		return false
	}
	got, err := hex.DecodeString(sigHex)
	if err != nil {
		return false
	}
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(s))
	return hmac.Equal(got, m.Sum(nil))
}

// KeyFromEnv returns the key bytes stored in env var name (trimmed), enforcing a minimum byte length.
// If the env var is missing/blank -> ErrHMACKeyMissing.
// If too short -> ErrHMACKeyTooShort.
func KeyFromEnv(name string, minBytes int) ([]byte, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return nil, ErrHMACKeyMissing
	}
	b := []byte(raw)
	if minBytes > 0 && len(b) < minBytes {
		return nil, ErrHMACKeyTooShort
	}
	return b, nil
}

// CookieKeyConfigured reports whether AUTH_COOKIE_KEY is present (non-empty after trim).
// Note: This does not enforce minimum length. Use KeyFromEnv for policy checks.
func CookieKeyConfigured() bool {
	return strings.TrimSpace(os.Getenv(CookieKeyEnv)) != ""
}
