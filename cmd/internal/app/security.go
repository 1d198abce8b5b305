package app

import (
	"errors"
	"slices"

	"auth/cmd/security/token"
)

// ErrCORSWildcardCredentials rejects an allowlist that would let any site
// make credentialed requests.
var ErrCORSWildcardCredentials = errors.New("security policy: AUTH_CORS_ALLOWED_ORIGINS contains \"*\" while AUTH_CORS_ALLOW_CREDENTIALS=true")

// ValidateSecurityConfig enforces the startup security policy.
//
// The token signing key itself is checked by session.LoadConfigFromEnv; this
// covers the CORS credential policy and the requirement that the cookie be
// signed with its own secret.
func ValidateSecurityConfig(cfg Config) error {
	if cfg.CORSAllowCredentials && slices.Contains(cfg.CORSAllowedOrigins, "*") {
		return ErrCORSWildcardCredentials
	}
	if !cfg.RequireCookieKey {
		return nil
	}

	// Bytes, not runes: the key is used raw.
	if _, err := token.KeyFromEnv(token.CookieKeyEnv, token.MinKeyBytes); err != nil {
		switch {
		case errors.Is(err, token.ErrHMACKeyMissing):
			return errors.New("security policy: AUTH_REQUIRE_COOKIE_KEY=true but AUTH_COOKIE_KEY is missing")
		case errors.Is(err, token.ErrHMACKeyTooShort):
			return errors.New("security policy: AUTH_REQUIRE_COOKIE_KEY=true but AUTH_COOKIE_KEY is too short (min 32 bytes)")
		default:
			return err
		}
	}
	return nil
}
