package refresh

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

const (
	recordIDSize = 16
	secretSize   = 32
	tokenRawSize = recordIDSize + secretSize
)

// Generate mints a new opaque refresh token: 16 random bytes of record ID
// followed by 32 random bytes of secret, base64url-encoded without padding.
func Generate() (string, error) {
	var raw [tokenRawSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}

// decodeToken splits an opaque token into its record ID (as the store key
// component) and the hex SHA-256 of its secret.
func decodeToken(token string) (recordID, secretHash string, err error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", "", ErrTokenMalformed
	}
	if len(raw) != tokenRawSize {
		return "", "", ErrTokenMalformed
	}
	sum := sha256.Sum256(raw[recordIDSize:])
	return base64.RawURLEncoding.EncodeToString(raw[:recordIDSize]), hex.EncodeToString(sum[:]), nil
}
