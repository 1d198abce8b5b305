package session

import (
	"time"

	paseto "aidanwoods.dev/go-paseto"
)

// pasetoDefaultTTL applies when no token TTL is configured; v4.public tokens
// always carry an expiration.
const pasetoDefaultTTL = 24 * time.Hour

type pasetoV4Codec struct {
	issuer    string
	ttl       time.Duration
	clockSkew time.Duration

	secret paseto.V4AsymmetricSecretKey
	public paseto.V4AsymmetricPublicKey
}

// NewPasetoV4Codec builds a Codec based on PASETO v4.public.
//
// It uses an Ed25519 asymmetric keypair and enforces issuer and expiration rules.
// Clock skew is applied during verification via ValidAt to tolerate minor clock differences.
func NewPasetoV4Codec(cfg Config) (Codec, error) {
	if cfg.PasetoV4SecretKeyHex == "" {
		return nil, ErrSigningKeyMissing
	}
	secret, err := paseto.NewV4AsymmetricSecretKeyFromHex(cfg.PasetoV4SecretKeyHex)
	if err != nil {
		return nil, ErrConfig
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = pasetoDefaultTTL
	}

	return &pasetoV4Codec{
		issuer:    cfg.Issuer,
		ttl:       ttl,
		clockSkew: cfg.ClockSkew,
		secret:    secret,
		public:    secret.Public(),
	}, nil
}

func (m *pasetoV4Codec) Issue(cl Claims, now time.Time) (string, error) {
	if !cl.valid() {
		return "", ErrInvalidToken
	}

	tok := paseto.NewToken()
	tok.SetIssuer(m.issuer)
	tok.SetIssuedAt(now)
	tok.SetNotBefore(now)
	tok.SetExpiration(now.Add(m.ttl))

	_ = tok.Set("uid", cl.UserID)
	_ = tok.Set("email", cl.Email)

	return tok.V4Sign(m.secret, nil), nil
}

func (m *pasetoV4Codec) Verify(token string, now time.Time) (Claims, error) {
	if token == "" {
		return Claims{}, ErrInvalidToken
	}

	// Validate slightly in the future to avoid failing "nbf" when clocks differ.
	validNow := now.Add(m.clockSkew)

	// Build a fresh parser per call to avoid accumulating rules across verifies.
	p := paseto.NewParser()
	p.AddRule(paseto.IssuedBy(m.issuer))
	p.AddRule(paseto.NotExpired())
	p.AddRule(paseto.ValidAt(validNow))

	parsed, err := p.ParseV4Public(m.public, token, nil)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	uid, err := parsed.GetString("uid")
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	email, err := parsed.GetString("email")
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	out := Claims{UserID: uid, Email: email}
	if !out.valid() {
		return Claims{}, ErrInvalidToken
	}
	return out, nil
}
