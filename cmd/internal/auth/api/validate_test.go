package authapi

import (
	"testing"
	"time"
)

func testNow() time.Time { return time.Now().UTC() }

func TestValidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"test@test.com", true},
		{"first.last+tag@sub.example.org", true},
		{"Mixed@Example.COM", true},
		{"", false},
		{"plain", false},
		{"@test.com", false},
		{"a@", false},
		{"a@localhost", false},
		{"a@test.", false},
		{"a b@test.com", false},
		{"Bob <bob@test.com>", false},
		{"a@@test.com", false},
	}
	for _, tt := range tests {
		if got := validEmail(tt.in); got != tt.want {
			t.Fatalf("validEmail(%q)=%v want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidateSignup_PasswordBounds(t *testing.T) {
	t.Parallel()

	cfg := testPasswordConfig()
	tests := []struct {
		pw   string
		want int
	}{
		{"abc", 1},
		{"abcd", 0},
		{"12345678901234567890", 0},
		{"123456789012345678901", 1},
		{"ääää", 0},
		{"", 1},
	}
	for _, tt := range tests {
		if got := validateSignup("a@b.com", tt.pw, cfg); len(got) != tt.want {
			t.Fatalf("validateSignup(%q) returned %d items, want %d", tt.pw, len(got), tt.want)
		}
	}
}
