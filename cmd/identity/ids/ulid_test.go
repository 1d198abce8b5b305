package ids

import (
	"testing"
	"time"
)

func TestNewULID_UniqueAndParseable(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		id, err := NewULID(now)
		if err != nil {
			t.Fatalf("NewULID: %v", err)
		}
		if len(id) != 26 {
			t.Fatalf("expected 26 chars, got %d (%q)", len(id), id)
		}
		if !IsULID(id) {
			t.Fatalf("IsULID(%q)=false", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestNewULID_ZeroTimeDefaultsToNow(t *testing.T) {
	t.Parallel()

	id, err := NewULID(time.Time{})
	if err != nil {
		t.Fatalf("NewULID: %v", err)
	}
	if !IsULID(id) {
		t.Fatalf("expected valid ulid, got %q", id)
	}
}

func TestIsULID_Rejects(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "not-a-ulid", "01HZZZZZZZZZZZZZZZZZZZZZZ", "8ZZZZZZZZZZZZZZZZZZZZZZZZZ"} {
		if IsULID(in) {
			t.Fatalf("IsULID(%q)=true, want false", in)
		}
	}
}
