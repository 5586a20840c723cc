// Package refresh persists refresh tokens in Redis.
//
// A token is an opaque base64url value carrying a random record ID and a
// random secret. Redis stores only the SHA-256 of the secret, so a dump of
// the store never yields usable tokens. Rotation and revocation run as Lua
// scripts: marking the presented record revoked is atomic with the validity
// checks, which is what makes each token single-use even under concurrent
// replay.
package refresh
