package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const sqliteSchemaSQL = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY CHECK (length(id) = 26),
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at INTEGER NOT NULL,

  CONSTRAINT uq_users_email UNIQUE (email)
);
`

// SQLiteStore implements credential persistence over a single SQLite file.
// Email comparison uses SQLite's default BINARY collation, so lookups and the
// UNIQUE constraint are both case-sensitive.
type SQLiteStore struct {
	db     *sql.DB
	hasher PasswordHasher
}

// OpenSQLiteStore opens (or creates) the SQLite file at path and applies the schema.
func OpenSQLiteStore(path string, hasher PasswordHasher) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("identity: sqlite path is required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("identity: nil hasher")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite has a single writer; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db, hasher: hasher}, nil
}

// Close releases the underlying database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// FindByEmail implements Store.
func (s *SQLiteStore) FindByEmail(ctx context.Context, email string) (User, bool, error) {
	var (
		u         User
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`,
		NormalizeEmail(email),
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, false, nil
		}
		return User{}, false, err
	}
	u.CreatedAt = fromMillis(createdAt)
	return u, true, nil
}

// Create implements Store.
func (s *SQLiteStore) Create(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.SQLiteStore.Create"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	if _, found, err := s.FindByEmail(ctx, in.Email); err != nil {
		return User{}, err
	} else if found {
		return User{}, duplicateEmail(op)
	}

	u, err := newUserRecord(op, s.hasher, in)
	if err != nil {
		return User{}, err
	}
	// Round-trip precision matches what FindByEmail returns.
	u.CreatedAt = fromMillis(toMillis(u.CreatedAt))

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, toMillis(u.CreatedAt),
	)
	if err != nil {
		if field, ok := sqliteClassifyUniqueViolation(err); ok {
			return User{}, ConflictError{Op: op, Field: field}
		}
		return User{}, err
	}
	return u, nil
}

// sqliteClassifyUniqueViolation maps a uniqueness failure to the logical
// field it hit. SQLite names the column ("UNIQUE constraint failed: users.email")
// rather than the constraint, so the message is the classifier.
func sqliteClassifyUniqueViolation(err error) (field string, ok bool) {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return "", false
	}
	// Primary-key and UNIQUE collisions share this text; CHECK and NOT NULL
	// failures do not.
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return "", false
	}

	switch {
	case strings.Contains(msg, "users.email"):
		return fieldEmail, true
	case strings.Contains(msg, "users.id"):
		return "id", true
	default:
		return "unique", true
	}
}

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}
