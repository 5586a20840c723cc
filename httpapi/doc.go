// Package httpapi exposes the authentication engine over HTTP.
//
// [NewRouter] mounts the /auth routes on a gorilla/mux router. Every
// response uses one envelope:
//
//	{"success": bool, "message": string, "data": object|null}
//
// Request bodies are strict JSON (unknown fields rejected) and validated
// before the engine is called, so the engine only ever sees well-formed
// input. Engine errors are mapped to HTTP status codes in one place.
//
// # Architecture boundaries
//
// This package owns HTTP concerns only: routing, decoding, validation,
// status mapping. It does NOT touch the stores or the token issuer —
// everything flows through authcore.Engine.
package httpapi
