package authcore

import "errors"

var (
	// ErrEngineNotReady is returned when an Engine method is called on a nil
	// or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrInputRequired is returned when a required field is empty.
	ErrInputRequired = errors.New("required input missing")
	// ErrEmailTaken is returned by SignUp when the normalized email is
	// already registered.
	ErrEmailTaken = errors.New("user already exists")
	// ErrInvalidCredentials is returned by SignIn when the email/password
	// pair does not authenticate.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound is returned when no user record matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountLocked is returned when the account is locked after
	// repeated failed sign-ins. Only a password reset or an administrative
	// unlock clears it.
	ErrAccountLocked = errors.New("account locked")
	// ErrAccountUnverified is returned by SignIn when email verification is
	// required before first sign-in.
	ErrAccountUnverified = errors.New("account email not verified")
	// ErrPasswordPolicy is returned when a new password fails the
	// configured policy.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrRefreshInvalid is returned when a presented refresh token is
	// unknown, malformed, revoked, or otherwise unusable.
	ErrRefreshInvalid = errors.New("refresh token not found or has been revoked")
	// ErrRefreshExpired is returned when the presented refresh token is
	// past its expiry.
	ErrRefreshExpired = errors.New("refresh token has expired")
	// ErrRefreshReuse is returned when a previously rotated refresh token
	// is replayed. All tokens for the owning user are revoked when this is
	// detected.
	ErrRefreshReuse = errors.New("refresh token reuse detected")
	// ErrTokenExpired is returned when a signed token is past its expiry.
	// Clients use this to trigger silent refresh.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid is returned when a signed token fails signature or
	// structural verification.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenWrongPurpose is returned when a purpose-scoped token is
	// presented to an operation it was not issued for.
	ErrTokenWrongPurpose = errors.New("token issued for a different purpose")
	// ErrStoreUnavailable is returned when a store call fails or times out.
	ErrStoreUnavailable = errors.New("credential backend unavailable")
	// ErrMailUnavailable is returned when the mailer collaborator fails.
	ErrMailUnavailable = errors.New("mail delivery failed")
)
