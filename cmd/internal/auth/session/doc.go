// Package session implements stateless sessions.
//
// A session is a signed token carrying the user's id and email. The token is
// never stored server-side: it travels inside a signed cookie (CookieCarrier)
// and is re-verified on every request.
//
// Two token formats are supported:
//   - jwt: HS256 with a shared secret (AUTH_JWT_KEY), the default.
//   - paseto: PASETO v4.public with an Ed25519 key (AUTH_PASETO_V4_SECRET_KEY_HEX).
//
// Resolving identity from a request and gating routes live in package authn.
package session
