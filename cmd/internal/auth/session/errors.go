package session

import "errors"

var (
	// ErrInvalidToken is returned when a token fails verification for any reason:
	// malformed, bad signature, wrong issuer, expired or missing claims.
	ErrInvalidToken = errors.New("invalid token")

	// ErrSigningKeyMissing is returned when no signing key is configured.
	// It is a startup failure, never a per-request condition.
	ErrSigningKeyMissing = errors.New("signing key missing")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid config")
)
