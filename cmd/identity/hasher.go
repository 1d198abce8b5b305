package identity

import (
	"auth/cmd/security/password"
)

// PasswordHasher is the one-way transform applied to passwords before storage.
type PasswordHasher interface {
	// Hash returns a salted encoding; two calls with the same input differ.
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hashed. Mismatch and malformed
	// hashes both return false.
	Verify(hashed, plaintext string) bool
}

// Argon2Hasher adapts cmd/security/password to PasswordHasher.
type Argon2Hasher struct {
	cfg password.Config
}

// NewArgon2Hasher builds a hasher around an explicit password config.
func NewArgon2Hasher(cfg password.Config) Argon2Hasher {
	return Argon2Hasher{cfg: cfg}
}

// Hash implements PasswordHasher.
func (h Argon2Hasher) Hash(plaintext string) (string, error) {
	return h.cfg.Hash(plaintext)
}

// Verify implements PasswordHasher.
func (h Argon2Hasher) Verify(hashed, plaintext string) bool {
	return h.cfg.Matches(hashed, plaintext)
}
