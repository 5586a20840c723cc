// Package middleware exposes an HTTP guard built on top of
// authcore.Engine validation.
//
// [Guard] reads the Authorization bearer token, calls Engine.Validate,
// and injects the validated user into the request context where
// [UserFromContext] retrieves it. Rejections carry a machine-readable
// code so clients can distinguish an expired token from a bad one.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// Engine.Validate.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Access Redis or MongoDB (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from Engine.Validate.
package middleware
