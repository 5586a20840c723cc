package authcore

import (
	"context"

	"github.com/castlelock/authcore/token"
)

// VerifyEmail confirms the account behind an email-verification token.
// Verification is idempotent: verifying an already-verified account
// succeeds and reports AlreadyVerified instead of failing.
func (e *Engine) VerifyEmail(ctx context.Context, verificationToken string) (*EmailVerificationResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if verificationToken == "" {
		return nil, ErrInputRequired
	}

	claims, err := e.issuer.ParsePurpose(verificationToken, token.PurposeEmailVerification)
	if err != nil {
		e.metricInc(MetricEmailVerifyFailure)
		e.emitAudit(ctx, AuditEvent{EventType: AuditEmailVerification, Success: false, Reason: "invalid token"})
		return nil, e.mapTokenError(err)
	}

	user, alreadyVerified, err := e.users.MarkVerified(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricEmailVerifySuccess)
	e.emitAudit(ctx, AuditEvent{EventType: AuditEmailVerification, UserID: user.ID, Email: user.Email, Success: true})

	return &EmailVerificationResult{
		User:            sanitize(user),
		AlreadyVerified: alreadyVerified,
	}, nil
}
