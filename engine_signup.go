package authcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/castlelock/authcore/token"
	"github.com/google/uuid"
)

// SignUp registers a new account and issues its email-verification token.
// The email is normalized before the uniqueness check; a taken email
// returns [ErrEmailTaken]. When a mailer is configured the verification
// link is sent, but a delivery failure does not undo the registration — it
// is audited and the token is still returned.
func (e *Engine) SignUp(ctx context.Context, name, email, plaintext string) (*SignUpResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if name == "" || email == "" || plaintext == "" {
		return nil, ErrInputRequired
	}
	if len(plaintext) < e.config.Password.MinLength {
		return nil, ErrPasswordPolicy
	}

	email = NormalizeEmail(email)

	hash, err := e.hasher.Hash(plaintext)
	if err != nil {
		return nil, ErrPasswordPolicy
	}

	user, err := e.users.Create(ctx, CreateUserInput{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleUser,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			e.metricInc(MetricSignUpDuplicate)
			e.emitAudit(ctx, AuditEvent{EventType: AuditSignUp, Email: email, Success: false, Reason: "duplicate email"})
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	verification, err := e.issuer.CreatePurpose(user.ID, token.PurposeEmailVerification, e.config.EmailVerification.TokenTTL)
	if err != nil {
		return nil, err
	}

	e.sendVerificationMail(ctx, user, verification)

	e.metricInc(MetricSignUpSuccess)
	e.emitAudit(ctx, AuditEvent{EventType: AuditSignUp, UserID: user.ID, Email: email, Success: true})

	return &SignUpResult{
		User:              sanitize(user),
		VerificationToken: verification,
	}, nil
}

func (e *Engine) sendVerificationMail(ctx context.Context, user User, verification string) {
	if e.mailer == nil {
		return
	}

	url := e.config.EmailVerification.VerifyURL + verification
	subject := e.config.AppName + " email verification"
	body := fmt.Sprintf(
		"Hello %s,\n\nPlease verify your email by clicking the link:\n%s\n\nThis link will expire in %s.\n",
		user.Name, url, e.config.EmailVerification.TokenTTL,
	)

	if err := e.mailer.Send(ctx, user.Email, subject, body); err != nil {
		e.emitAudit(ctx, AuditEvent{EventType: AuditMailFailure, UserID: user.ID, Email: user.Email, Success: false, Reason: err.Error()})
	}
}
