// Package identity owns user records and the credential store.
//
// It contains the user model, the Store contract used by the HTTP layer,
// the password hasher bridge to cmd/security/password, and three Store
// implementations: PostgreSQL, SQLite, and an in-memory dev store.
//
// Email is a case-sensitive exact-match key. Uniqueness is enforced by the
// storage layer (UNIQUE constraint or a map insert under lock), never only by
// a check-then-act in the caller.
package identity
