package identity

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	dup := duplicateEmail("identity.Create")
	if !IsConflict(dup) || !IsDuplicateEmail(dup) {
		t.Fatalf("expected duplicate email conflict: %v", dup)
	}
	if !errors.Is(dup, ErrConflict) {
		t.Fatalf("expected errors.Is(ErrConflict)")
	}

	wrapped := fmt.Errorf("signup: %w", dup)
	if !IsDuplicateEmail(wrapped) {
		t.Fatalf("expected wrapped duplicate to be detected")
	}

	idConflict := ConflictError{Op: "identity.Create", Field: "id"}
	if IsDuplicateEmail(idConflict) {
		t.Fatalf("id conflict must not read as duplicate email")
	}

	inv := invalid("identity.Create", "email is required")
	if !IsInvalidInput(inv) || IsConflict(inv) {
		t.Fatalf("unexpected classification for %v", inv)
	}
	if got := inv.Error(); got != "identity.Create: invalid_input: email is required" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestNormalizeEmail_PreservesCase(t *testing.T) {
	t.Parallel()

	if got := NormalizeEmail("  Mixed@Example.COM \n"); got != "Mixed@Example.COM" {
		t.Fatalf("NormalizeEmail=%q", got)
	}
}
