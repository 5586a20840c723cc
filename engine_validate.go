package authcore

import (
	"context"
	"errors"

	"github.com/castlelock/authcore/token"
)

// Validate verifies an access token and returns the account it belongs
// to. Expired tokens return [ErrTokenExpired], everything else that fails
// signature or shape checks returns [ErrTokenInvalid], and a structurally
// valid token for a locked account returns [ErrAccountLocked]. The
// returned user never carries the password hash.
func (e *Engine) Validate(ctx context.Context, accessToken string) (*User, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if accessToken == "" {
		return nil, ErrInputRequired
	}

	claims, err := e.issuer.ParseAccess(accessToken)
	if err != nil {
		e.metricInc(MetricValidateFailure)
		if errors.Is(err, token.ErrExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	user, err := e.users.FindByID(ctx, claims.UserID)
	if err != nil {
		e.metricInc(MetricValidateFailure)
		return nil, err
	}
	if user.Locked {
		e.metricInc(MetricValidateFailure)
		return nil, ErrAccountLocked
	}

	e.metricInc(MetricValidateSuccess)
	clean := sanitize(user)
	return &clean, nil
}
