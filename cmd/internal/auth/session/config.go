package session

import (
	"crypto/sha256"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"

	"auth/cmd/security/token"
)

// Token formats accepted by AUTH_TOKEN_FORMAT.
const (
	FormatJWT    = "jwt"
	FormatPaseto = "paseto"
)

// Config defines all runtime configuration for sessions: the token codec and
// the cookie that carries it.
type Config struct {
	// Format selects the codec: FormatJWT or FormatPaseto.
	Format string

	// Issuer is the value set in the "iss" claim.
	Issuer string

	// TokenTTL bounds token lifetime. Zero means tokens do not expire
	// (jwt only; paseto falls back to a fixed lifetime).
	TokenTTL time.Duration

	// ClockSkew defines the allowed time skew during token validation.
	ClockSkew time.Duration

	// JWTKey is the HS256 shared secret.
	JWTKey []byte

	// PasetoV4SecretKeyHex is the hex-encoded Ed25519 secret key
	// used to sign PASETO v4.public tokens.
	PasetoV4SecretKeyHex string

	Cookie CookieConfig
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name     string
	Key      []byte
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// DefaultConfig returns the baseline configuration without any keys.
func DefaultConfig() Config {
	return Config{
		Format:    FormatJWT,
		Issuer:    "auth",
		TokenTTL:  0,
		ClockSkew: 30 * time.Second,
		Cookie: CookieConfig{
			Name:     "session",
			Path:     "/",
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// LoadConfigFromEnv loads session configuration from environment variables.
//
// Required (depending on AUTH_TOKEN_FORMAT):
//   - AUTH_JWT_KEY (jwt, default)
//   - AUTH_PASETO_V4_SECRET_KEY_HEX (paseto)
//
// Optional:
//   - AUTH_TOKEN_FORMAT (jwt|paseto)
//   - AUTH_TOKEN_ISSUER
//   - AUTH_TOKEN_TTL, AUTH_CLOCK_SKEW (Go duration strings)
//   - AUTH_COOKIE_NAME, AUTH_COOKIE_PATH, AUTH_COOKIE_DOMAIN
//   - AUTH_COOKIE_SECURE (bool), AUTH_COOKIE_SAMESITE (lax|strict|none)
//   - AUTH_COOKIE_KEY (cookie signing secret, >= 32 bytes; when unset a key is
//     derived from the token secret with HKDF-SHA256, never the secret itself)
//
// Returns ErrSigningKeyMissing when the selected format has no key and
// ErrConfig for any other invalid value.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("AUTH_TOKEN_FORMAT")); v != "" {
		switch strings.ToLower(v) {
		case FormatJWT:
			cfg.Format = FormatJWT
		case FormatPaseto:
			cfg.Format = FormatPaseto
		default:
			return Config{}, ErrConfig
		}
	}

	if v := os.Getenv("AUTH_TOKEN_ISSUER"); v != "" {
		cfg.Issuer = v
	}

	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, ErrConfig
		}
		cfg.TokenTTL = d
	}

	if v := os.Getenv("AUTH_CLOCK_SKEW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, ErrConfig
		}
		cfg.ClockSkew = d
	}

	var signingSecret []byte
	switch cfg.Format {
	case FormatPaseto:
		cfg.PasetoV4SecretKeyHex = strings.TrimSpace(os.Getenv("AUTH_PASETO_V4_SECRET_KEY_HEX"))
		if cfg.PasetoV4SecretKeyHex == "" {
			return Config{}, ErrSigningKeyMissing
		}
		signingSecret = []byte(cfg.PasetoV4SecretKeyHex)
	default:
		k := strings.TrimSpace(os.Getenv("AUTH_JWT_KEY"))
		if k == "" {
			return Config{}, ErrSigningKeyMissing
		}
		cfg.JWTKey = []byte(k)
		signingSecret = cfg.JWTKey
	}

	if v := strings.TrimSpace(os.Getenv("AUTH_COOKIE_NAME")); v != "" {
		if !validCookieName(v) {
			return Config{}, ErrConfig
		}
		cfg.Cookie.Name = v
	}
	if v := strings.TrimSpace(os.Getenv("AUTH_COOKIE_PATH")); v != "" {
		if !strings.HasPrefix(v, "/") {
			return Config{}, ErrConfig
		}
		cfg.Cookie.Path = v
	}
	cfg.Cookie.Domain = strings.TrimSpace(os.Getenv("AUTH_COOKIE_DOMAIN"))

	if v := strings.TrimSpace(os.Getenv("AUTH_COOKIE_SECURE")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, ErrConfig
		}
		cfg.Cookie.Secure = b
	}

	if v := strings.TrimSpace(os.Getenv("AUTH_COOKIE_SAMESITE")); v != "" {
		ss, ok := parseSameSite(v)
		if !ok {
			return Config{}, ErrConfig
		}
		cfg.Cookie.SameSite = ss
	}
	// Browsers drop SameSite=None cookies that are not Secure.
	if cfg.Cookie.SameSite == http.SameSiteNoneMode && !cfg.Cookie.Secure {
		return Config{}, ErrConfig
	}

	key, err := token.KeyFromEnv(token.CookieKeyEnv, token.MinKeyBytes)
	switch {
	case err == nil:
		cfg.Cookie.Key = key
	case errors.Is(err, token.ErrHMACKeyMissing):
		derived, derr := deriveCookieKey(signingSecret)
		if derr != nil {
			return Config{}, derr
		}
		cfg.Cookie.Key = derived
	default:
		return Config{}, ErrConfig
	}

	return cfg, nil
}

// cookieKeyInfo binds derived keys to the cookie MAC so the token secret is
// never used directly for a second purpose.
const cookieKeyInfo = "auth session cookie mac v1"

// deriveCookieKey expands secret into a token.MinKeyBytes cookie MAC key.
func deriveCookieKey(secret []byte) ([]byte, error) {
	key := make([]byte, token.MinKeyBytes)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(cookieKeyInfo)), key); err != nil {
		return nil, err
	}
	return key, nil
}

func parseSameSite(v string) (http.SameSite, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "lax":
		return http.SameSiteLaxMode, true
	case "strict":
		return http.SameSiteStrictMode, true
	case "none":
		return http.SameSiteNoneMode, true
	default:
		return http.SameSiteDefaultMode, false
	}
}

func validCookieName(name string) bool {
	for _, r := range name {
		if r <= ' ' || r >= 0x7f || strings.ContainsRune(`()<>@,;:\"/[]?={}`, r) {
			return false
		}
	}
	return name != ""
}
