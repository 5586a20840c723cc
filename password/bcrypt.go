package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	minCost = 10
	maxCost = 14

	// bcrypt ignores input beyond 72 bytes; longer passwords are rejected
	// rather than silently truncated.
	maxPasswordBytes = 72
)

// Config carries the bcrypt work factor.
type Config struct {
	Cost int
}

// Hasher hashes and verifies passwords with a fixed bcrypt cost. It is
// immutable after New and safe for concurrent use.
type Hasher struct {
	cost int
}

// New validates cfg and returns a ready Hasher. Cost must lie within
// [10, 14].
func New(cfg Config) (*Hasher, error) {
	if cfg.Cost < minCost || cfg.Cost > maxCost {
		return nil, errors.New("password cost must be within [10, 14]")
	}
	return &Hasher{cost: cfg.Cost}, nil
}

// Hash returns the salted bcrypt digest of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if len(plaintext) == 0 {
		return "", errors.New("password must not be empty")
	}
	if len(plaintext) > maxPasswordBytes {
		return "", errors.New("password must be at most 72 bytes")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A malformed digest is a
// verification failure, never a panic or an error the caller must branch
// on.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
