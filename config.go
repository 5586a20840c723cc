package authcore

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config is the process-wide immutable engine configuration. It is
// assembled once at startup (cmd/authd builds it from the environment) and
// injected through [Builder.WithConfig]; the engine never reads tunables
// ad hoc.
type Config struct {
	Token             TokenConfig
	Password          PasswordConfig
	Lockout           LockoutConfig
	PasswordReset     PasswordResetConfig
	EmailVerification EmailVerificationConfig
	Security          SecurityConfig
	Audit             AuditConfig
	Metrics           MetricsConfig
	AppName           string
}

// TokenConfig controls the token issuer/verifier.
type TokenConfig struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

// PasswordConfig controls the bcrypt hasher and the password policy.
type PasswordConfig struct {
	Cost      int
	MinLength int
}

// LockoutConfig controls failed sign-in accounting.
type LockoutConfig struct {
	MaxAttempts int
}

// PasswordResetConfig controls the forgot/reset-password flow. ResetURL is
// the frontend base the token is appended to.
type PasswordResetConfig struct {
	TokenTTL time.Duration
	ResetURL string
}

// EmailVerificationConfig controls the verification flow. When
// RequireForSignIn is set, unverified accounts cannot sign in.
type EmailVerificationConfig struct {
	TokenTTL         time.Duration
	VerifyURL        string
	RequireForSignIn bool
}

// SecurityConfig carries deliberate policy toggles.
//
// GenericCredentialErrors selects account-enumeration resistance: when set,
// unknown-email and wrong-password sign-ins both report
// [ErrInvalidCredentials] with no remaining-attempts count. When unset, the
// precise messages (distinct not-found, attempts remaining) are restored
// for products that prefer exact UX over enumeration resistance.
//
// EchoResetToken allows the HTTP layer to include the reset token and URL
// in the forgot-password response body. It must stay false in production;
// the token still travels by email.
type SecurityConfig struct {
	GenericCredentialErrors bool
	EchoResetToken          bool
}

// AuditConfig controls the buffered audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the baseline configuration: 15 minute access
// tokens, 7 day refresh tokens, bcrypt cost 10, lockout after 5 failures,
// 1 hour reset tokens, 24 hour verification tokens, generic credential
// errors, audit and metrics enabled.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
			SigningMethod: "hs256",
			Issuer:        "authcore",
			Leeway:        30 * time.Second,
		},
		Password: PasswordConfig{
			Cost:      10,
			MinLength: 6,
		},
		Lockout: LockoutConfig{
			MaxAttempts: 5,
		},
		PasswordReset: PasswordResetConfig{
			TokenTTL: time.Hour,
		},
		EmailVerification: EmailVerificationConfig{
			TokenTTL: 24 * time.Hour,
		},
		Security: SecurityConfig{
			GenericCredentialErrors: true,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		AppName: "authcore",
	}
}

// Validate rejects configurations the engine cannot run safely with.
func (c Config) Validate() error {
	if c.Token.AccessTTL <= 0 {
		return errors.New("token access TTL must be positive")
	}
	if c.Token.RefreshTTL <= c.Token.AccessTTL {
		return errors.New("refresh TTL must exceed access TTL")
	}
	switch strings.ToLower(c.Token.SigningMethod) {
	case "hs256":
		if len(c.Token.PrivateKey) < 32 {
			return errors.New("hs256 requires a secret of at least 32 bytes")
		}
	case "ed25519":
		if len(c.Token.PrivateKey) == 0 || len(c.Token.PublicKey) == 0 {
			return errors.New("ed25519 requires both private and public keys")
		}
	default:
		return fmt.Errorf("unsupported signing method %q", c.Token.SigningMethod)
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("token leeway must be within [0, 2m]")
	}
	if c.Password.Cost < 10 || c.Password.Cost > 14 {
		return errors.New("password cost must be within [10, 14]")
	}
	if c.Password.MinLength < 6 {
		return errors.New("password minimum length must be at least 6")
	}
	if c.Lockout.MaxAttempts < 1 {
		return errors.New("lockout max attempts must be at least 1")
	}
	if c.PasswordReset.TokenTTL <= 0 {
		return errors.New("password reset token TTL must be positive")
	}
	if c.EmailVerification.TokenTTL <= 0 {
		return errors.New("email verification token TTL must be positive")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 1 {
		return errors.New("audit buffer size must be at least 1")
	}
	return nil
}

// cloneConfig deep-copies cfg so a caller mutating its struct after Build
// cannot affect a running engine.
func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.PrivateKey = append([]byte(nil), cfg.Token.PrivateKey...)
	out.Token.PublicKey = append([]byte(nil), cfg.Token.PublicKey...)
	return out
}

// NormalizeEmail lowercases and trims an email address. All store lookups
// and uniqueness checks operate on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
