package token

import (
	"crypto/ed25519"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the JWT signature algorithm.
type SigningMethod string

const (
	// MethodHS256 signs with an HMAC-SHA256 shared secret.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 signs with an Ed25519 key pair.
	MethodEd25519 SigningMethod = "ed25519"
)

// Purpose tags a token with the single operation it may be consumed by.
// Access tokens carry no purpose claim.
type Purpose string

const (
	// PurposePasswordReset scopes a token to ResetPassword.
	PurposePasswordReset Purpose = "password-reset"
	// PurposeEmailVerification scopes a token to VerifyEmail.
	PurposeEmailVerification Purpose = "email-verification"
)

var (
	// ErrExpired is returned when a token is past its expiry (or not yet
	// valid). Callers distinguish it so clients can trigger silent refresh.
	ErrExpired = errors.New("token expired")
	// ErrMalformed is returned for any structural or signature failure.
	ErrMalformed = errors.New("token malformed or signature invalid")
	// ErrWrongPurpose is returned when a token's purpose claim does not
	// match the operation consuming it, even if signature and expiry are
	// otherwise valid.
	ErrWrongPurpose = errors.New("token purpose mismatch")
)

// Config carries the signing material and validation bounds.
type Config struct {
	AccessTTL     time.Duration
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

// Claims is the decoded payload of every token this package issues.
type Claims struct {
	UserID  string  `json:"uid"`
	Purpose Purpose `json:"prp,omitempty"`
	jwt.RegisteredClaims
}

// Manager issues and verifies tokens. It is immutable after NewManager and
// safe for concurrent use.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a ready Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires private key")
		}
	case MethodEd25519:
		if len(cfg.PrivateKey) != ed25519.PrivateKeySize {
			return nil, errors.New("invalid ed25519 private key")
		}
		if len(cfg.PublicKey) != ed25519.PublicKeySize {
			return nil, errors.New("invalid ed25519 public key")
		}
	default:
		return nil, errors.New("unsupported signing method")
	}
	return &Manager{config: cfg}, nil
}

// CreateAccess signs an access token for userID with the configured TTL.
func (m *Manager) CreateAccess(userID string) (string, error) {
	return m.create(userID, "", m.config.AccessTTL)
}

// CreatePurpose signs a purpose-scoped token for userID valid for ttl.
func (m *Manager) CreatePurpose(userID string, purpose Purpose, ttl time.Duration) (string, error) {
	if purpose == "" {
		return "", errors.New("purpose required")
	}
	if ttl <= 0 {
		return "", errors.New("invalid TTL")
	}
	return m.create(userID, purpose, ttl)
}

func (m *Manager) create(userID string, purpose Purpose, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.config.Issuer,
		},
	}

	tok := jwt.NewWithClaims(m.method(), claims)
	return tok.SignedString(m.signKey())
}

// ParseAccess verifies an access token and returns its claims. Tokens
// carrying a purpose claim are rejected with [ErrWrongPurpose]: a reset or
// verification token must never authenticate an API call.
func (m *Manager) ParseAccess(tokenStr string) (*Claims, error) {
	claims, err := m.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != "" {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

// ParsePurpose verifies a purpose-scoped token and checks that its purpose
// claim matches want.
func (m *Manager) ParsePurpose(tokenStr string, want Purpose) (*Claims, error) {
	claims, err := m.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != want {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

func (m *Manager) parse(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method().Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.verifyKey(), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrMalformed
	}
	if claims.UserID == "" {
		return nil, ErrMalformed
	}
	return claims, nil
}

func (m *Manager) method() jwt.SigningMethod {
	if m.config.SigningMethod == MethodEd25519 {
		return jwt.SigningMethodEdDSA
	}
	return jwt.SigningMethodHS256
}

func (m *Manager) signKey() interface{} {
	if m.config.SigningMethod == MethodEd25519 {
		return ed25519.PrivateKey(m.config.PrivateKey)
	}
	return m.config.PrivateKey
}

func (m *Manager) verifyKey() interface{} {
	if m.config.SigningMethod == MethodEd25519 {
		return ed25519.PublicKey(m.config.PublicKey)
	}
	return m.config.PrivateKey
}
