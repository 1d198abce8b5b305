package identity

import (
	"context"
	"strings"
	"time"

	"auth/cmd/identity/ids"
)

const fieldEmail = "email"

// User is a stored account record.
// PasswordHash is an Argon2id encoding; it never equals the submitted plaintext
// and must not leave the process.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// CreateUserInput describes a signup request that already passed boundary validation.
type CreateUserInput struct {
	Email    string
	Password string
	Now      time.Time
}

// Store is the credential persistence boundary.
type Store interface {
	// FindByEmail is a pure lookup by exact email. A missing record is reported
	// as found == false with a nil error.
	FindByEmail(ctx context.Context, email string) (u User, found bool, err error)

	// Create hashes the password and persists a new record. It fails with a
	// ConflictError on the "email" field (see IsDuplicateEmail) when the email
	// is taken, including when a concurrent Create wins the race.
	Create(ctx context.Context, in CreateUserInput) (User, error)
}

// newUserRecord validates input and builds the record to insert.
// Hashing happens here, outside any store lock or transaction.
func newUserRecord(op string, hasher PasswordHasher, in CreateUserInput) (User, error) {
	email := NormalizeEmail(in.Email)
	if email == "" {
		return User{}, invalid(op, "email is required")
	}
	if strings.TrimSpace(in.Password) == "" {
		return User{}, invalid(op, "password is required")
	}
	if hasher == nil {
		return User{}, invalid(op, "nil hasher")
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	pwHash, err := hasher.Hash(in.Password)
	if err != nil {
		return User{}, err
	}

	id, err := ids.NewULID(now)
	if err != nil {
		return User{}, err
	}

	return User{
		ID:           id,
		Email:        email,
		PasswordHash: pwHash,
		CreatedAt:    now,
	}, nil
}
