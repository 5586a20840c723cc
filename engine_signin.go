package authcore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// SignIn authenticates an email and password pair and issues an access and
// refresh token. Failed attempts are counted; reaching the configured
// maximum locks the account. Locked accounts are rejected before the
// password is checked so the counter cannot grow past the limit.
//
// With Security.GenericCredentialErrors enabled (the default) an unknown
// email and a wrong password both return [ErrInvalidCredentials]. With it
// disabled the unknown email returns [ErrUserNotFound] and a wrong password
// error carries the remaining attempt count.
func (e *Engine) SignIn(ctx context.Context, email, plaintext string) (*SignInResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if email == "" || plaintext == "" {
		return nil, ErrInputRequired
	}

	email = NormalizeEmail(email)

	user, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricSignInFailure)
			e.emitAudit(ctx, AuditEvent{EventType: AuditSignIn, Email: email, Success: false, Reason: "unknown email"})
			if e.config.Security.GenericCredentialErrors {
				return nil, ErrInvalidCredentials
			}
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Locked {
		e.metricInc(MetricSignInFailure)
		e.emitAudit(ctx, AuditEvent{EventType: AuditSignIn, UserID: user.ID, Email: email, Success: false, Reason: "account locked"})
		return nil, ErrAccountLocked
	}

	if e.config.EmailVerification.RequireForSignIn && !user.Verified {
		e.metricInc(MetricSignInFailure)
		e.emitAudit(ctx, AuditEvent{EventType: AuditSignIn, UserID: user.ID, Email: email, Success: false, Reason: "email not verified"})
		return nil, ErrAccountUnverified
	}

	if !e.hasher.Verify(plaintext, user.PasswordHash) {
		return nil, e.recordFailedSignIn(ctx, user, email)
	}

	if user.SignInAttempts > 0 {
		if err := e.users.ResetSignInAttempts(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	access, err := e.issuer.CreateAccess(user.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := e.issueRefresh(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricSignInSuccess)
	e.emitAudit(ctx, AuditEvent{EventType: AuditSignIn, UserID: user.ID, Email: email, Success: true})

	return &SignInResult{
		User:         sanitize(user),
		AccessToken:  access,
		RefreshToken: refreshToken,
	}, nil
}

func (e *Engine) recordFailedSignIn(ctx context.Context, user User, email string) error {
	attempts, locked, err := e.users.RecordFailedSignIn(ctx, user.ID, e.config.Lockout.MaxAttempts)
	if err != nil {
		return err
	}

	if locked {
		e.metricInc(MetricSignInLockout)
		e.emitAudit(ctx, AuditEvent{
			EventType: AuditSignInLockout,
			UserID:    user.ID,
			Email:     email,
			Success:   false,
			Reason:    "attempt limit reached after " + strconv.Itoa(attempts) + " failures",
		})
		return ErrAccountLocked
	}

	e.metricInc(MetricSignInFailure)
	e.emitAudit(ctx, AuditEvent{EventType: AuditSignIn, UserID: user.ID, Email: email, Success: false, Reason: "wrong password"})

	if e.config.Security.GenericCredentialErrors {
		return ErrInvalidCredentials
	}
	remaining := e.config.Lockout.MaxAttempts - attempts
	return fmt.Errorf("%w, %d attempts remaining", ErrInvalidCredentials, remaining)
}
