package refresh

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrTokenNotFound is returned when no record matches the token.
	ErrTokenNotFound = errors.New("refresh token not found")
	// ErrTokenExpired is returned when the record exists but is past its
	// expiry.
	ErrTokenExpired = errors.New("refresh token expired")
	// ErrTokenRevoked is returned when the record was already rotated or
	// revoked; on the rotation path this is the replay signal.
	ErrTokenRevoked = errors.New("refresh token revoked")
	// ErrTokenMalformed is returned when the opaque value does not decode.
	ErrTokenMalformed = errors.New("refresh token malformed")
	// ErrRedisUnavailable wraps transport failures talking to Redis.
	ErrRedisUnavailable = errors.New("refresh store unavailable")
)

const (
	recordVersion = "1"

	rotateStatusNotFound int64 = 0
	rotateStatusExpired  int64 = 1
	rotateStatusMismatch int64 = 2
	rotateStatusRevoked  int64 = 3
	rotateStatusCorrupt  int64 = 4
	rotateStatusRotated  int64 = 5
)

// Record layout in Redis: version|revoked|expiresAt|userID|secretHashHex.
// The layout is parsed both here and inside the Lua scripts; bump the
// version byte when changing it.

// rotateScript checks validity and marks the record revoked in one atomic
// step. Returns {status, userID}.
var rotateScript = redis.NewScript(`
local data = redis.call("GET", KEYS[1])
if not data then
  return {0, ""}
end
local version, revoked, exp, uid, hash = string.match(data, "^(%d+)|(%d)|(%d+)|([^|]*)|(%x+)$")
if not hash or version ~= "1" then
  return {4, ""}
end
if tonumber(exp) < tonumber(ARGV[2]) then
  redis.call("DEL", KEYS[1])
  return {1, ""}
end
if hash ~= ARGV[1] then
  return {2, ""}
end
if revoked == "1" then
  return {3, uid}
end
local pttl = redis.call("PTTL", KEYS[1])
if pttl <= 0 then
  redis.call("DEL", KEYS[1])
  return {1, ""}
end
redis.call("SET", KEYS[1], version .. "|1|" .. exp .. "|" .. uid .. "|" .. hash, "PX", pttl)
return {5, uid}
`)

// revokeScript marks a record revoked when the secret matches. Missing or
// already-revoked records return success: revocation is idempotent and
// never reveals token validity.
var revokeScript = redis.NewScript(`
local data = redis.call("GET", KEYS[1])
if not data then
  return 0
end
local version, revoked, exp, uid, hash = string.match(data, "^(%d+)|(%d)|(%d+)|([^|]*)|(%x+)$")
if not hash or hash ~= ARGV[1] then
  return 0
end
if revoked == "1" then
  return 1
end
local pttl = redis.call("PTTL", KEYS[1])
if pttl <= 0 then
  redis.call("DEL", KEYS[1])
  return 0
end
redis.call("SET", KEYS[1], version .. "|1|" .. exp .. "|" .. uid .. "|" .. hash, "PX", pttl)
return 1
`)

// revokeAllScript walks the per-user index and marks every live record
// revoked. Returns the number of records touched.
var revokeAllScript = redis.NewScript(`
local ids = redis.call("SMEMBERS", KEYS[1])
local touched = 0
for _, id in ipairs(ids) do
  local key = ARGV[1] .. id
  local data = redis.call("GET", key)
  if data then
    local version, revoked, exp, uid, hash = string.match(data, "^(%d+)|(%d)|(%d+)|([^|]*)|(%x+)$")
    if hash and revoked == "0" then
      local pttl = redis.call("PTTL", key)
      if pttl > 0 then
        redis.call("SET", key, version .. "|1|" .. exp .. "|" .. uid .. "|" .. hash, "PX", pttl)
        touched = touched + 1
      end
    end
  else
    redis.call("SREM", KEYS[1], id)
  end
end
return touched
`)

// Store persists refresh-token records in Redis. It is safe for concurrent
// use.
type Store struct {
	redis  *redis.Client
	prefix string
}

// NewStore returns a Store using prefix for every key. An empty prefix
// defaults to "art".
func NewStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "art"
	}
	return &Store{redis: client, prefix: prefix}
}

func (s *Store) recordKey(recordID string) string {
	return s.prefix + ":" + recordID
}

func (s *Store) userKey(userID string) string {
	return s.prefix + ":u:" + userID
}

func encodeRecord(userID, secretHash string, expiresAt int64) string {
	return recordVersion + "|0|" + strconv.FormatInt(expiresAt, 10) + "|" + userID + "|" + secretHash
}

// Save persists a freshly generated token for userID with the given TTL.
func (s *Store) Save(ctx context.Context, tokenValue, userID string, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("refresh TTL must be positive")
	}
	if strings.Contains(userID, "|") {
		return errors.New("user id must not contain '|'")
	}

	recordID, secretHash, err := decodeToken(tokenValue)
	if err != nil {
		return err
	}

	record := encodeRecord(userID, secretHash, time.Now().Add(ttl).Unix())

	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, s.recordKey(recordID), record, ttl)
	pipe.SAdd(ctx, s.userKey(userID), recordID)
	pipe.Expire(ctx, s.userKey(userID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Rotate atomically validates tokenValue and marks its record revoked,
// returning the owning user ID. A replayed token returns the owner together
// with [ErrTokenRevoked] so the caller can revoke the user's remaining
// tokens.
func (s *Store) Rotate(ctx context.Context, tokenValue string) (string, error) {
	recordID, secretHash, err := decodeToken(tokenValue)
	if err != nil {
		return "", err
	}

	res, err := rotateScript.Run(ctx, s.redis,
		[]string{s.recordKey(recordID)},
		secretHash, time.Now().Unix(),
	).Result()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	status, userID, err := parseScriptReply(res)
	if err != nil {
		return "", err
	}

	switch status {
	case rotateStatusRotated:
		return userID, nil
	case rotateStatusRevoked:
		return userID, ErrTokenRevoked
	case rotateStatusExpired:
		return "", ErrTokenExpired
	case rotateStatusMismatch, rotateStatusCorrupt:
		return "", ErrTokenNotFound
	default:
		return "", ErrTokenNotFound
	}
}

// Revoke marks the record for tokenValue revoked. Revoking a nonexistent,
// malformed, or already-revoked token is not an error.
func (s *Store) Revoke(ctx context.Context, tokenValue string) error {
	recordID, secretHash, err := decodeToken(tokenValue)
	if err != nil {
		// Unknown garbage reveals nothing and revokes nothing.
		return nil
	}

	if err := revokeScript.Run(ctx, s.redis,
		[]string{s.recordKey(recordID)},
		secretHash,
	).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// RevokeAllForUser marks every live record owned by userID revoked. Used on
// password reset and on replay detection.
func (s *Store) RevokeAllForUser(ctx context.Context, userID string) error {
	if err := revokeAllScript.Run(ctx, s.redis,
		[]string{s.userKey(userID)},
		s.prefix+":",
	).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func parseScriptReply(res interface{}) (int64, string, error) {
	reply, ok := res.([]interface{})
	if !ok || len(reply) != 2 {
		return 0, "", fmt.Errorf("%w: unexpected script reply", ErrRedisUnavailable)
	}
	status, ok := reply[0].(int64)
	if !ok {
		return 0, "", fmt.Errorf("%w: unexpected script reply", ErrRedisUnavailable)
	}
	userID, _ := reply[1].(string)
	return status, userID, nil
}
