package authapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"auth/cmd/internal/httperr"
	"auth/cmd/security/password"
)

const (
	fieldEmail    = "email"
	fieldPassword = "password"

	msgEmailInvalid       = "Email must be valid"
	msgPasswordRequired   = "You must supply a password"
	msgEmailInUse         = "Email in use"
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidBody        = "Invalid request body"
)

// validEmail accepts a bare addr-spec with a dotted domain. Display names
// ("Name <a@b.com>") and surrounding text are rejected.
func validEmail(s string) bool {
	if s == "" || len(s) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	domain := s[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	return true
}

func passwordLengthMessage(p password.Policy) string {
	return fmt.Sprintf("Password must be between %d and %d characters", p.MinLength, p.MaxLength)
}

// validateSignup returns every violated rule; nil means the input is acceptable.
func validateSignup(email, pw string, cfg password.Config) []httperr.Item {
	var items []httperr.Item
	if !validEmail(email) {
		items = append(items, httperr.Item{Message: msgEmailInvalid, Field: fieldEmail})
	}
	if err := cfg.Validate(pw); err != nil {
		items = append(items, httperr.Item{Message: passwordLengthMessage(cfg.Policy), Field: fieldPassword})
	}
	return items
}

// validateSignin checks shape only; length bounds are a signup concern.
func validateSignin(email, pw string) []httperr.Item {
	var items []httperr.Item
	if !validEmail(email) {
		items = append(items, httperr.Item{Message: msgEmailInvalid, Field: fieldEmail})
	}
	if pw == "" {
		items = append(items, httperr.Item{Message: msgPasswordRequired, Field: fieldPassword})
	}
	return items
}

// bodyError maps a decode failure to the client-facing error. Field type
// mismatches never get here; they surface as validation items instead.
func bodyError(err error) *httperr.Error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return httperr.BadRequest("Request body too large")
	}
	return httperr.BadRequest(msgInvalidBody)
}
