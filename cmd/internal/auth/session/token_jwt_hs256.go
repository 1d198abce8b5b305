package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type jwtClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type jwtCodec struct {
	issuer    string
	ttl       time.Duration
	clockSkew time.Duration
	key       []byte
}

// NewJWTCodec builds a Codec that signs HS256 JWTs with cfg.JWTKey.
// Tokens carry "exp" only when cfg.TokenTTL > 0.
func NewJWTCodec(cfg Config) (Codec, error) {
	if len(cfg.JWTKey) == 0 {
		return nil, ErrSigningKeyMissing
	}
	key := make([]byte, len(cfg.JWTKey))
	copy(key, cfg.JWTKey)

	return &jwtCodec{
		issuer:    cfg.Issuer,
		ttl:       cfg.TokenTTL,
		clockSkew: cfg.ClockSkew,
		key:       key,
	}, nil
}

func (c *jwtCodec) Issue(cl Claims, now time.Time) (string, error) {
	if !cl.valid() {
		return "", ErrInvalidToken
	}

	rc := jwt.RegisteredClaims{
		Issuer:   c.issuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if c.ttl > 0 {
		rc.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		UserID:           cl.UserID,
		Email:            cl.Email,
		RegisteredClaims: rc,
	})
	return tok.SignedString(c.key)
}

func (c *jwtCodec) Verify(token string, now time.Time) (Claims, error) {
	if token == "" {
		return Claims{}, ErrInvalidToken
	}

	var parsed jwtClaims
	_, err := jwt.ParseWithClaims(token, &parsed,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithLeeway(c.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	out := Claims{UserID: parsed.UserID, Email: parsed.Email}
	if !out.valid() {
		return Claims{}, ErrInvalidToken
	}
	return out, nil
}
