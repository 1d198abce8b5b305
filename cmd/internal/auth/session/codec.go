package session

import (
	"fmt"
	"time"
)

// Codec issues and verifies session tokens.
type Codec interface {
	// Issue signs claims into a token.
	Issue(c Claims, now time.Time) (string, error)
	// Verify checks the signature before reading any claim. Every failure
	// is reported as ErrInvalidToken.
	Verify(token string, now time.Time) (Claims, error)
}

// NewCodec builds the Codec selected by cfg.Format.
func NewCodec(cfg Config) (Codec, error) {
	switch cfg.Format {
	case FormatJWT, "":
		return NewJWTCodec(cfg)
	case FormatPaseto:
		return NewPasetoV4Codec(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown token format %q", ErrConfig, cfg.Format)
	}
}
