package identity

import (
	"context"
	"sync"
)

// MemoryStore is a dev-only fallback when no database is configured.
// The email index is the uniqueness constraint: inserts check and write it
// under a single lock acquisition.
type MemoryStore struct {
	hasher PasswordHasher

	mu      sync.RWMutex
	byEmail map[string]User
}

// NewMemoryStore constructs an in-memory Store.
func NewMemoryStore(hasher PasswordHasher) *MemoryStore {
	return &MemoryStore{
		hasher:  hasher,
		byEmail: make(map[string]User),
	}
}

// Close closes the store (noop for in-memory).
func (s *MemoryStore) Close() error { return nil }

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(_ context.Context) error { return nil }

// FindByEmail implements Store.
func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (User, bool, error) {
	if err := ctx.Err(); err != nil {
		return User{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[NormalizeEmail(email)]
	return u, ok, nil
}

// Create implements Store.
func (s *MemoryStore) Create(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.MemoryStore.Create"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	// Fast path: skip hashing for an obvious duplicate.
	if _, found, _ := s.FindByEmail(ctx, in.Email); found {
		return User{}, duplicateEmail(op)
	}

	u, err := newUserRecord(op, s.hasher, in)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[u.Email]; taken {
		return User{}, duplicateEmail(op)
	}
	s.byEmail[u.Email] = u
	return u, nil
}

// Len returns the number of stored users.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byEmail)
}
