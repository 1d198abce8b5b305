// Package httperr is the closed set of errors the HTTP surface can emit.
//
// Every failure renders as {"errors":[{"message":"...","field":"..."}]} with
// the status code of its Kind. Anything that is not an *Error is treated as an
// internal fault and rendered without detail.
package httperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Kind classifies an error and determines its status code.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindMethodNotAllowed
	KindInternal
	KindForbidden
)

// Fixed messages for kinds that do not carry caller-supplied text.
const (
	MsgUnauthorized     = "Not authorized"
	MsgNotFound         = "Not Found"
	MsgMethodNotAllowed = "Method not allowed"
	MsgInternal         = "Something went wrong"
)

// StatusCode maps the kind to an HTTP status.
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "internal"
	}
}

// Item is one entry of the serialized error list.
type Item struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Body is the response envelope for every error.
type Body struct {
	Errors []Item `json:"errors"`
}

// Error is an error with a client-facing representation.
type Error struct {
	Kind    Kind
	Message string
	// Fields lists every violated rule for KindValidation.
	Fields []Item
	// Err is the underlying cause; it is never serialized.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	for _, it := range e.Serialize() {
		b.WriteString(": ")
		if it.Field != "" {
			b.WriteString(it.Field)
			b.WriteString(" ")
		}
		b.WriteString(it.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status for e.
func (e *Error) StatusCode() int { return e.Kind.StatusCode() }

// Serialize returns the list rendered to the client.
func (e *Error) Serialize() []Item {
	if e.Kind == KindInternal {
		return []Item{{Message: MsgInternal}}
	}
	if e.Kind == KindValidation && len(e.Fields) > 0 {
		out := make([]Item, len(e.Fields))
		copy(out, e.Fields)
		return out
	}
	return []Item{{Message: e.Message}}
}

// Validation reports input that failed boundary rules. fields must list
// every violation, not just the first.
func Validation(fields ...Item) *Error {
	return &Error{Kind: KindValidation, Message: "Invalid request parameters", Fields: fields}
}

// BadRequest reports a domain-level rejection such as "Email in use".
func BadRequest(msg string) *Error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

// Unauthorized reports a request that needs an identity and has none.
func Unauthorized() *Error {
	return &Error{Kind: KindUnauthorized, Message: MsgUnauthorized}
}

// Forbidden reports a request refused regardless of identity.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// NotFound reports an unknown route.
func NotFound() *Error {
	return &Error{Kind: KindNotFound, Message: MsgNotFound}
}

// MethodNotAllowed reports a known route called with the wrong method.
func MethodNotAllowed() *Error {
	return &Error{Kind: KindMethodNotAllowed, Message: MsgMethodNotAllowed}
}

// Internal wraps an unexpected fault. The cause is kept for logging only.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: err}
}

// From returns err as an *Error, wrapping anything else as Internal.
func From(err error) *Error {
	var he *Error
	if errors.As(err, &he) {
		return he
	}
	return Internal(err)
}

// Write renders err as the error envelope.
func Write(w http.ResponseWriter, err error) {
	he := From(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(he.StatusCode())
	_ = json.NewEncoder(w).Encode(Body{Errors: he.Serialize()})
}
