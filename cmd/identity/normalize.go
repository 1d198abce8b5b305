package identity

import "strings"

// NormalizeEmail strips surrounding whitespace only.
// Case is preserved: email is matched exactly, so "A@b.com" and "a@b.com" are distinct keys.
func NormalizeEmail(s string) string {
	return strings.TrimSpace(s)
}
