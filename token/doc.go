// Package token signs and verifies the service's JWTs: short-lived access
// tokens and purpose-scoped tokens (password reset, email verification)
// that embed the single operation they are valid for.
//
// Verification is pure: Parse* methods perform no I/O and no side effects.
// Callers disambiguate failures with [ErrExpired], [ErrMalformed], and
// [ErrWrongPurpose].
package token
