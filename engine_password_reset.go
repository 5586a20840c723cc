package authcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/castlelock/authcore/token"
)

// RequestPasswordReset issues a short-lived reset token for the account
// behind email and mails the reset link. The token is single-purpose: it
// cannot be used as an access token and an access token cannot reset a
// password. The returned request echoes the raw token only when
// Security.EchoResetToken is set; production deployments deliver it by
// mail alone.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) (*PasswordResetRequest, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if email == "" {
		return nil, ErrInputRequired
	}

	email = NormalizeEmail(email)

	user, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.emitAudit(ctx, AuditEvent{EventType: AuditPasswordResetRequest, Email: email, Success: false, Reason: "unknown email"})
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	resetToken, err := e.issuer.CreatePurpose(user.ID, token.PurposePasswordReset, e.config.PasswordReset.TokenTTL)
	if err != nil {
		return nil, err
	}

	url := e.config.PasswordReset.ResetURL + resetToken

	if e.mailer != nil {
		subject := e.config.AppName + " password reset"
		body := fmt.Sprintf(
			"Hello %s,\n\nA password reset was requested for your account. Use the link below to choose a new password:\n%s\n\nThis link will expire in %s. If you did not request this, you can ignore this message.\n",
			user.Name, url, e.config.PasswordReset.TokenTTL,
		)
		if err := e.mailer.Send(ctx, user.Email, subject, body); err != nil {
			e.emitAudit(ctx, AuditEvent{EventType: AuditMailFailure, UserID: user.ID, Email: user.Email, Success: false, Reason: err.Error()})
			return nil, ErrMailUnavailable
		}
	}

	e.metricInc(MetricPasswordResetRequest)
	e.emitAudit(ctx, AuditEvent{EventType: AuditPasswordResetRequest, UserID: user.ID, Email: email, Success: true})

	req := &PasswordResetRequest{URL: url}
	if e.config.Security.EchoResetToken {
		req.Token = resetToken
	}
	return req, nil
}

// ResetPassword verifies a reset token and replaces the account password.
// A successful reset clears any sign-in lockout and revokes every refresh
// token belonging to the user, so sessions established with the old
// password cannot outlive it.
func (e *Engine) ResetPassword(ctx context.Context, resetToken, plaintext string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if resetToken == "" || plaintext == "" {
		return ErrInputRequired
	}

	claims, err := e.issuer.ParsePurpose(resetToken, token.PurposePasswordReset)
	if err != nil {
		e.metricInc(MetricPasswordResetFailure)
		return e.mapTokenError(err)
	}

	if len(plaintext) < e.config.Password.MinLength {
		return ErrPasswordPolicy
	}

	user, err := e.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return err
	}

	hash, err := e.hasher.Hash(plaintext)
	if err != nil {
		return ErrPasswordPolicy
	}

	if err := e.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	if err := e.tokens.RevokeAllForUser(ctx, user.ID); err != nil {
		return ErrStoreUnavailable
	}

	e.metricInc(MetricPasswordResetSuccess)
	e.emitAudit(ctx, AuditEvent{EventType: AuditPasswordResetConfirm, UserID: user.ID, Email: user.Email, Success: true})
	return nil
}

// mapTokenError translates issuer verification failures into the public
// error surface.
func (e *Engine) mapTokenError(err error) error {
	switch {
	case errors.Is(err, token.ErrExpired):
		return ErrTokenExpired
	case errors.Is(err, token.ErrWrongPurpose):
		return ErrTokenWrongPurpose
	default:
		return ErrTokenInvalid
	}
}
