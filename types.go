package authcore

import (
	"context"
	"time"
)

// Role is the closed role enumeration carried on every user record.
type Role string

const (
	// RoleUser is the default role assigned at sign-up.
	RoleUser Role = "user"
	// RoleAdmin marks administrative accounts.
	RoleAdmin Role = "admin"
	// RoleModerator marks moderation accounts.
	RoleModerator Role = "moderator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// Permission is a single entry of the closed permission enumeration.
type Permission string

const (
	// PermissionFullControl grants every permission.
	PermissionFullControl Permission = "full-control"
	// PermissionRead grants read access.
	PermissionRead Permission = "read"
	// PermissionWrite grants write access.
	PermissionWrite Permission = "write"
	// PermissionModify grants modify access.
	PermissionModify Permission = "modify"
	// PermissionDelete grants delete access.
	PermissionDelete Permission = "delete"
)

// Valid reports whether p is one of the known permissions.
func (p Permission) Valid() bool {
	switch p {
	case PermissionFullControl, PermissionRead, PermissionWrite, PermissionModify, PermissionDelete:
		return true
	}
	return false
}

// User is the account record handled by the engine. PasswordHash is never
// serialized and is cleared from every value the engine returns to callers.
type User struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	PasswordHash   string       `json:"-"`
	Verified       bool         `json:"isVerified"`
	Locked         bool         `json:"isLocked"`
	SignInAttempts int          `json:"-"`
	Role           Role         `json:"role"`
	Permissions    []Permission `json:"permissions"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// CreateUserInput is the input for [UserStore.Create]. The engine fills
// every field; stores persist it verbatim.
type CreateUserInput struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
}

// UserStore is the credential-store interface callers must implement to
// integrate authcore with their user database. A MongoDB implementation is
// provided in the mongostore package.
//
// Implementations translate their native not-found and duplicate-key
// signals into [ErrUserNotFound] and [ErrEmailTaken]; any other failure is
// reported as (or wrapped around) [ErrStoreUnavailable]. Every method must
// honor ctx cancellation and apply its own per-call timeout.
type UserStore interface {
	// Create persists a new user with Verified=false, Locked=false and a
	// zero attempt counter. Email uniqueness is enforced by the store.
	Create(ctx context.Context, input CreateUserInput) (User, error)

	// FindByEmail looks up a user by normalized email.
	FindByEmail(ctx context.Context, email string) (User, error)

	// FindByID looks up a user by its identifier.
	FindByID(ctx context.Context, id string) (User, error)

	// RecordFailedSignIn atomically increments the failed-attempt counter
	// and sets the lock flag once the counter reaches maxAttempts. It
	// returns the post-increment counter and lock state. The increment and
	// lock decision must be a single store-side operation so that two
	// racing sign-ins can never under-count.
	RecordFailedSignIn(ctx context.Context, id string, maxAttempts int) (attempts int, locked bool, err error)

	// ResetSignInAttempts clears the failed-attempt counter.
	ResetSignInAttempts(ctx context.Context, id string) error

	// UpdatePassword replaces the password hash and, in the same update,
	// clears the lock flag and resets the attempt counter.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// MarkVerified sets the verification flag and returns the updated user
	// together with whether the flag was already set.
	MarkVerified(ctx context.Context, id string) (user User, alreadyVerified bool, err error)
}

// Mailer is the narrow outbound-mail collaborator. Implementations live in
// the mail package; failures surface to callers as [ErrMailUnavailable].
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SignUpResult is returned by [Engine.SignUp].
type SignUpResult struct {
	User              User
	VerificationToken string
}

// SignInResult is returned by [Engine.SignIn].
type SignInResult struct {
	User         User
	AccessToken  string
	RefreshToken string
}

// TokenPair is returned by [Engine.Refresh] after a successful rotation.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// PasswordResetRequest is returned by [Engine.RequestPasswordReset]. The
// HTTP layer echoes Token and URL only outside production
// (see [SecurityConfig.EchoResetToken]); the mail body always carries them.
type PasswordResetRequest struct {
	Token string
	URL   string
}

// EmailVerificationResult is returned by [Engine.VerifyEmail].
// AlreadyVerified reports the idempotent second-call case, which is not an
// error.
type EmailVerificationResult struct {
	User            User
	AlreadyVerified bool
}
