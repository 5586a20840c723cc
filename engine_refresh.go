package authcore

import (
	"context"
	"errors"

	"github.com/castlelock/authcore/refresh"
)

// Refresh exchanges a live refresh token for a new access and refresh
// token pair. The presented token is revoked atomically before the new one
// is issued, so each refresh token can be used exactly once. Presenting an
// already-revoked token is treated as theft evidence: every refresh token
// belonging to that user is revoked and [ErrRefreshReuse] is returned.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if refreshToken == "" {
		return nil, ErrInputRequired
	}

	userID, err := e.tokens.Rotate(ctx, refreshToken)
	if err != nil {
		return nil, e.mapRotateError(ctx, userID, err)
	}

	user, err := e.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricRefreshFailure)
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Locked {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, AuditEvent{EventType: AuditRefresh, UserID: user.ID, Success: false, Reason: "account locked"})
		return nil, ErrAccountLocked
	}

	access, err := e.issuer.CreateAccess(user.ID)
	if err != nil {
		return nil, err
	}
	next, err := e.issueRefresh(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, AuditEvent{EventType: AuditRefresh, UserID: user.ID, Success: true})

	return &TokenPair{AccessToken: access, RefreshToken: next}, nil
}

// SignOut revokes the presented refresh token. It is idempotent: unknown,
// expired and malformed tokens all sign out cleanly.
func (e *Engine) SignOut(ctx context.Context, refreshToken string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if refreshToken == "" {
		return nil
	}

	if err := e.tokens.Revoke(ctx, refreshToken); err != nil {
		return ErrStoreUnavailable
	}

	e.metricInc(MetricSignOut)
	e.emitAudit(ctx, AuditEvent{EventType: AuditSignOut, Success: true})
	return nil
}

func (e *Engine) issueRefresh(ctx context.Context, userID string) (string, error) {
	value, err := refresh.Generate()
	if err != nil {
		return "", err
	}
	if err := e.tokens.Save(ctx, value, userID, e.config.Token.RefreshTTL); err != nil {
		return "", ErrStoreUnavailable
	}
	return value, nil
}

// mapRotateError translates store-level rotation failures into the public
// error surface. Reuse of a revoked token triggers the revoke-all sweep
// for the owning user before reporting.
func (e *Engine) mapRotateError(ctx context.Context, userID string, err error) error {
	switch {
	case errors.Is(err, refresh.ErrTokenRevoked):
		e.metricInc(MetricRefreshReuse)
		if userID != "" {
			if sweepErr := e.tokens.RevokeAllForUser(ctx, userID); sweepErr != nil {
				return ErrStoreUnavailable
			}
		}
		e.emitAudit(ctx, AuditEvent{EventType: AuditRefreshReuse, UserID: userID, Success: false, Reason: "revoked token presented"})
		return ErrRefreshReuse
	case errors.Is(err, refresh.ErrTokenExpired):
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, AuditEvent{EventType: AuditRefresh, Success: false, Reason: "token expired"})
		return ErrRefreshExpired
	case errors.Is(err, refresh.ErrTokenNotFound),
		errors.Is(err, refresh.ErrTokenMalformed):
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, AuditEvent{EventType: AuditRefresh, Success: false, Reason: "token unknown"})
		return ErrRefreshInvalid
	case errors.Is(err, refresh.ErrRedisUnavailable):
		return ErrStoreUnavailable
	default:
		return err
	}
}
