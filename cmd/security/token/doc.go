// Package token provides keyed-digest primitives shared by the session layer.
//
// It is the single source of truth for:
// - loading secret key material from the environment with a minimum size
// - HMAC-SHA256 signing of opaque blobs (hex output, 64 chars)
// - constant-time signature comparison
//
// Environment:
// - AUTH_COOKIE_KEY: optional key for signing the session cookie envelope.
package token
