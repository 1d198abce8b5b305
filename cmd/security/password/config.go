package password

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Argon2idParams controls Argon2id hashing cost.
// MemoryKiB is in KiB as required by argon2.IDKey.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Policy bounds the accepted password length at signup.
type Policy struct {
	MinLength int
	MaxLength int
}

// Config holds the hashing cost and the signup length policy.
type Config struct {
	Params Argon2idParams
	Policy Policy
}

// DefaultConfig returns the settings used when no AUTH_* overrides are set:
// 64 MiB, 3 passes, one lane per CPU up to 4, and a 4..20 length policy.
func DefaultConfig() Config {
	lanes := min(max(runtime.NumCPU(), 1), 4)

	return Config{
		Params: Argon2idParams{
			MemoryKiB:   64 * 1024,
			Iterations:  3,
			Parallelism: uint8(lanes), // #nosec G115 -- clamped to [1..4].
			SaltLength:  16,
			KeyLength:   32,
		},
		Policy: Policy{MinLength: 4, MaxLength: 20},
	}
}

// envBound describes one numeric override: its variable, accepted range and
// the field it writes.
type envBound struct {
	name     string
	lo, hi   uint64
	assignTo func(*Config, uint64)
}

var envBounds = []envBound{
	{"AUTH_PASSWORD_MIN_LEN", 1, 1024, func(c *Config, v uint64) { c.Policy.MinLength = int(v) }},
	{"AUTH_PASSWORD_MAX_LEN", 1, 4096, func(c *Config, v uint64) { c.Policy.MaxLength = int(v) }},
	// 8 MiB .. 1 GiB
	{"AUTH_ARGON2_MEMORY_KIB", 8 * 1024, 1024 * 1024, func(c *Config, v uint64) { c.Params.MemoryKiB = uint32(v) }},
	{"AUTH_ARGON2_ITERATIONS", 1, 20, func(c *Config, v uint64) { c.Params.Iterations = uint32(v) }},
	{"AUTH_ARGON2_PARALLELISM", 1, 64, func(c *Config, v uint64) { c.Params.Parallelism = uint8(v) }}, // #nosec G115 -- hi is 64.
	{"AUTH_ARGON2_SALT_LEN", 8, 64, func(c *Config, v uint64) { c.Params.SaltLength = uint32(v) }},
	{"AUTH_ARGON2_KEY_LEN", 16, 64, func(c *Config, v uint64) { c.Params.KeyLength = uint32(v) }},
}

// FromEnv starts from DefaultConfig and applies every AUTH_PASSWORD_* and
// AUTH_ARGON2_* variable that is set. A set but unparsable or out-of-range
// value is an error, as is a min length above the max length.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	for _, b := range envBounds {
		raw, ok := os.LookupEnv(b.name)
		if !ok {
			continue
		}
		v, err := parseBounded(raw, b.lo, b.hi)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", b.name, err)
		}
		b.assignTo(&cfg, v)
	}

	if cfg.Policy.MinLength > cfg.Policy.MaxLength {
		return Config{}, fmt.Errorf("password policy invalid: min_len(%d) > max_len(%d)",
			cfg.Policy.MinLength, cfg.Policy.MaxLength)
	}
	return cfg, nil
}

func parseBounded(raw string, lo, hi uint64) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not an unsigned integer")
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("out of range [%d..%d]", lo, hi)
	}
	return v, nil
}
