package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"auth/cmd/security/token"
)

// Carrier moves a session token between requests and responses.
type Carrier interface {
	// Extract returns the carried token; ok is false when none is present.
	Extract(r *http.Request) (tok string, ok bool)
	// Bind attaches tok so the client presents it on later requests.
	Bind(w http.ResponseWriter, tok string)
	// Clear removes any carried token. Clearing an empty carrier is a no-op.
	Clear(w http.ResponseWriter)
}

// cookiePayload is the JSON envelope stored in the cookie.
type cookiePayload struct {
	JWT string `json:"jwt"`
}

// CookieCarrier stores the token in an HttpOnly cookie whose value is
// base64url(JSON{"jwt":token}) + "." + hex(HMAC-SHA256). Cookies with a bad
// signature are treated as absent.
type CookieCarrier struct {
	cfg CookieConfig
}

// NewCookieCarrier validates cfg and returns a carrier.
func NewCookieCarrier(cfg CookieConfig) (*CookieCarrier, error) {
	if len(cfg.Key) == 0 {
		return nil, ErrSigningKeyMissing
	}
	if cfg.Name == "" {
		return nil, ErrConfig
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &CookieCarrier{cfg: cfg}, nil
}

// Name returns the cookie name.
func (c *CookieCarrier) Name() string { return c.cfg.Name }

// Extract implements Carrier.
func (c *CookieCarrier) Extract(r *http.Request) (string, bool) {
	if c == nil || r == nil {
		return "", false
	}
	ck, err := r.Cookie(c.cfg.Name)
	if err != nil {
		return "", false
	}
	return c.decode(strings.TrimSpace(ck.Value))
}

// Bind implements Carrier.
func (c *CookieCarrier) Bind(w http.ResponseWriter, tok string) {
	if c == nil || w == nil || tok == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.cfg.Name,
		Value:    c.encode(tok),
		Path:     c.cfg.Path,
		Domain:   c.cfg.Domain,
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: c.cfg.SameSite,
	})
}

// Clear implements Carrier.
func (c *CookieCarrier) Clear(w http.ResponseWriter) {
	if c == nil || w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.cfg.Name,
		Value:    "",
		Path:     c.cfg.Path,
		Domain:   c.cfg.Domain,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: c.cfg.SameSite,
	})
}

func (c *CookieCarrier) encode(tok string) string {
	// Marshalling a struct with one string field cannot fail.
	raw, _ := json.Marshal(cookiePayload{JWT: tok})
	body := base64.RawURLEncoding.EncodeToString(raw)
	return body + "." + token.HashHMACSHA256Hex(body, c.cfg.Key)
}

func (c *CookieCarrier) decode(v string) (string, bool) {
	body, sig, ok := strings.Cut(v, ".")
	if !ok || body == "" {
		return "", false
	}
	if !token.VerifyHMACSHA256Hex(body, sig, c.cfg.Key) {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return "", false
	}
	var p cookiePayload
	if err := json.Unmarshal(raw, &p); err != nil || p.JWT == "" {
		return "", false
	}
	return p.JWT, true
}
