// Package password provides password hashing and verification utilities.
//
// It implements Argon2id hashing using a PHC-like encoded string format and includes:
// - Configurable Argon2id parameters (via environment variables)
// - Password length policy used at the request boundary
// - Strict hash decoding and verification with anti-DoS bounds
//
// Security notes:
// - Every Hash call draws a fresh random salt, so equal passwords never share an encoding.
// - Hash strings are treated as untrusted input during Verify and are validated accordingly.
package password
