// Package authcore implements the credential and token lifecycle engine
// behind a small authentication service: sign-up, sign-in with account
// lockout, rotating opaque refresh tokens, sign-out, password reset, and
// email verification.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the orchestration surface. It exposes [Engine], [Builder],
// [Config], the [UserStore] and [Mailer] collaborator interfaces, and value
// types (User, SignInResult, AuditEvent, MetricsSnapshot). Credential
// persistence is behind [UserStore] (a MongoDB implementation lives in
// mongostore); refresh tokens are persisted in Redis through the refresh
// package; token signing lives in the token package and password hashing in
// the password package.
//
// # What this package must NOT do
//
//   - Expose Redis clients or store encodings in its public API.
//   - Perform I/O outside of Engine methods (construction via Builder is
//     allocation-only until Build).
//   - Read process environment; all tunables arrive through [Config].
//
// # Consistency contract
//
// Failed sign-in accounting and refresh-token rotation are delegated to the
// stores as single atomic operations, so two racing requests can never
// under-count failures or both rotate the same refresh token.
package authcore
