package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2.Version is 0x13.
const phcVersion = "v=19"

var b64 = base64.RawStdEncoding

// phcHash is the parsed form of
// $argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<key_b64>
type phcHash struct {
	params Argon2idParams
	salt   []byte
	key    []byte
}

func (h phcHash) String() string {
	return fmt.Sprintf("$argon2id$%s$m=%d,t=%d,p=%d$%s$%s",
		phcVersion,
		h.params.MemoryKiB,
		h.params.Iterations,
		h.params.Parallelism,
		b64.EncodeToString(h.salt),
		b64.EncodeToString(h.key),
	)
}

// Hash derives an Argon2id key under a fresh random salt and returns the
// encoded string. Length policy is the caller's job (see Validate).
func (c Config) Hash(password string) (string, error) {
	salt := make([]byte, c.Params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}

	h := phcHash{params: c.Params, salt: salt}
	h.key = derive(password, h.salt, h.params, c.Params.KeyLength)
	return h.String(), nil
}

// Verify recomputes the key from encodedHash's own parameters and compares
// in constant time. A mismatch is (false, nil); a malformed or over-budget
// encoding is (false, ErrInvalidHash).
func (c Config) Verify(encodedHash, password string) (bool, error) {
	h, err := parsePHC(encodedHash)
	if err != nil {
		return false, err
	}
	if !withinReasonableBounds(h.params, c.Params) {
		return false, ErrInvalidHash
	}

	got := derive(password, h.salt, h.params, h.params.KeyLength)
	return subtle.ConstantTimeCompare(got, h.key) == 1, nil
}

// Matches is Verify collapsed to a single answer: malformed hashes never match.
func (c Config) Matches(encodedHash, password string) bool {
	ok, err := c.Verify(encodedHash, password)
	return err == nil && ok
}

func derive(password string, salt []byte, p Argon2idParams, keyLen uint32) []byte {
	return argon2.IDKey([]byte(password), salt, p.Iterations, p.MemoryKiB, p.Parallelism, keyLen)
}

// withinReasonableBounds accepts hashes made with cheaper settings than the
// current ones but refuses anything more than twice as expensive, so a stored
// hash cannot be used to burn CPU or memory.
func withinReasonableBounds(got, limits Argon2idParams) bool {
	switch {
	case got.MemoryKiB > limits.MemoryKiB*2,
		got.Iterations > limits.Iterations*2,
		got.Parallelism > limits.Parallelism*2:
		return false
	case got.SaltLength < 8 || got.SaltLength > 64:
		return false
	case got.KeyLength < 16 || got.KeyLength > 128:
		return false
	}
	return true
}

func parsePHC(encoded string) (phcHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" || parts[2] != phcVersion {
		return phcHash{}, ErrInvalidHash
	}

	var mem, iter, par uint32
	if !strings.HasPrefix(parts[3], "m=") {
		return phcHash{}, ErrInvalidHash
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iter, &par); err != nil {
		return phcHash{}, ErrInvalidHash
	}
	if mem == 0 || iter == 0 || par == 0 || par > 255 {
		return phcHash{}, ErrInvalidHash
	}

	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return phcHash{}, ErrInvalidHash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil {
		return phcHash{}, ErrInvalidHash
	}

	return phcHash{
		params: Argon2idParams{
			MemoryKiB:   mem,
			Iterations:  iter,
			Parallelism: uint8(par),       // #nosec G115 -- checked <= 255 above.
			SaltLength:  uint32(len(salt)), // #nosec G115 -- bounded by withinReasonableBounds.
			KeyLength:   uint32(len(key)),  // #nosec G115 -- bounded by withinReasonableBounds.
		},
		salt: salt,
		key:  key,
	}, nil
}
